package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tessera.app/spaced/internal/http/handler"
	"tessera.app/spaced/internal/model"
	"tessera.app/spaced/internal/service"
)

var _ = Describe("SpaceHandler", func() {
	var (
		router       *gin.Engine
		spaces       *mockSpaceService
		participants *mockParticipantService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		spaces = &mockSpaceService{}
		participants = &mockParticipantService{}
		h := handler.NewSpaceHandler(spaces, participants)

		router.POST("/spaces", h.Create)
		router.GET("/spaces", h.List)
		router.GET("/spaces/:name", h.Get)
		router.DELETE("/spaces/:name", h.Delete)
		router.GET("/spaces/:name/usage", h.Usage)
		router.GET("/spaces/:name/rooms", h.Rooms)
		router.POST("/spaces/:name/transfer-ownership", h.TransferOwnership)
		router.POST("/spaces/:name/managers", h.PromoteManager)
	})

	Describe("Create", func() {
		It("returns 201 with the space on success", func() {
			spaces.createFn = func(_ context.Context, name string, seed service.SpaceSeed) (*model.Space, error) {
				sp := model.NewSpace(name)
				sp.OwnerID = seed.OwnerID
				return sp, nil
			}

			body, _ := json.Marshal(map[string]any{
				"name":     "demo",
				"owner_id": "alice",
			})
			req := httptest.NewRequest(http.MethodPost, "/spaces", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["name"]).To(Equal("demo"))
			Expect(resp["owner_id"]).To(Equal("alice"))
		})

		It("returns 409 when the name is taken", func() {
			spaces.createFn = func(context.Context, string, service.SpaceSeed) (*model.Space, error) {
				return nil, service.ErrSpaceExists
			}

			body, _ := json.Marshal(map[string]any{"name": "demo"})
			req := httptest.NewRequest(http.MethodPost, "/spaces", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 400 when the name is missing", func() {
			req := httptest.NewRequest(http.MethodPost, "/spaces", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("returns 404 for an unknown space", func() {
			spaces.getFn = func(context.Context, string) (*model.Space, error) {
				return nil, service.ErrSpaceNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces/ghost", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 500 without internals on an unexpected error", func() {
			spaces.getFn = func(context.Context, string) (*model.Space, error) {
				return nil, context.DeadlineExceeded
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces/demo", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("deadline"))
		})
	})

	Describe("List", func() {
		It("returns compact entries by default", func() {
			spaces.listFn = func(_ context.Context, detail bool) ([]*model.Space, []service.ListEntry, error) {
				Expect(detail).To(BeFalse())
				return nil, []service.ListEntry{{Name: "demo", Participants: []string{"alice"}}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var entries []service.ListEntry
			Expect(json.Unmarshal(w.Body.Bytes(), &entries)).To(Succeed())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Participants).To(ConsistOf("alice"))
		})

		It("returns an empty array rather than null", func() {
			req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("[]"))
		})

		It("renders an empty array for detail=full with no spaces", func() {
			req := httptest.NewRequest(http.MethodGet, "/spaces?detail=full", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("[]"))
		})

		It("passes detail=full through", func() {
			spaces.listFn = func(_ context.Context, detail bool) ([]*model.Space, []service.ListEntry, error) {
				Expect(detail).To(BeTrue())
				return []*model.Space{model.NewSpace("demo")}, nil, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces?detail=full", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Delete", func() {
		It("returns 204 on success", func() {
			req := httptest.NewRequest(http.MethodDelete, "/spaces/demo", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("returns 404 for an unknown space", func() {
			spaces.deleteFn = func(context.Context, string) error {
				return service.ErrSpaceNotFound
			}

			req := httptest.NewRequest(http.MethodDelete, "/spaces/ghost", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("TransferOwnership", func() {
		It("reports the outcome flag", func() {
			participants.transferOwnershipFn = func(_ context.Context, space, newOwnerID string) (bool, error) {
				Expect(space).To(Equal("demo"))
				Expect(newOwnerID).To(Equal("bob"))
				return false, nil
			}

			body, _ := json.Marshal(map[string]string{"new_owner_id": "bob"})
			req := httptest.NewRequest(http.MethodPost, "/spaces/demo/transfer-ownership", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]bool
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["transferred"]).To(BeFalse())
		})

		It("returns 400 without a new owner id", func() {
			req := httptest.NewRequest(http.MethodPost, "/spaces/demo/transfer-ownership", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PromoteManager", func() {
		It("returns 404 for an unknown participant", func() {
			spaces.promoteManagerFn = func(context.Context, string, string) error {
				return service.ErrParticipantNotFound
			}

			body, _ := json.Marshal(map[string]string{"participant_id": "nobody"})
			req := httptest.NewRequest(http.MethodPost, "/spaces/demo/managers", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Rooms", func() {
		It("flattens the room map into responses", func() {
			spaces.getFn = func(_ context.Context, name string) (*model.Space, error) {
				sp := model.NewSpace(name)
				room := model.NewChildRoom("lounge", "alice", true)
				room.Add("alice")
				sp.Rooms["lounge"] = room
				return sp, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces/demo/rooms", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var rooms []map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &rooms)).To(Succeed())
			Expect(rooms).To(HaveLen(1))
			Expect(rooms[0]["name"]).To(Equal("lounge"))
			Expect(rooms[0]["private"]).To(Equal(true))
		})
	})

	Describe("Usage", func() {
		It("returns the ledger", func() {
			spaces.usageForFn = func(_ context.Context, name string) (*model.UsageLedger, error) {
				return &model.UsageLedger{Space: name}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/spaces/demo/usage", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("demo"))
		})
	})
})
