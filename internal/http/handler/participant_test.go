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

var _ = Describe("ParticipantHandler", func() {
	var (
		router       *gin.Engine
		participants *mockParticipantService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		participants = &mockParticipantService{}
		h := handler.NewParticipantHandler(participants)

		router.PUT("/spaces/:name/participants/:id", h.Upsert)
		router.DELETE("/spaces/:name/participants/:id", h.Remove)
	})

	Describe("Upsert", func() {
		It("passes the patch and the initial-join flag through", func() {
			participants.upsertFn = func(_ context.Context, space, id string, patch model.ParticipantPatch, initialJoin bool) (*model.Participant, error) {
				Expect(space).To(Equal("demo"))
				Expect(id).To(Equal("alice"))
				Expect(patch.Name).To(HaveValue(Equal("Alice")))
				Expect(patch.HandRaised).To(HaveValue(BeTrue()))
				Expect(initialJoin).To(BeTrue())
				return &model.Participant{ID: id, Name: "Alice", Online: true}, nil
			}

			body, _ := json.Marshal(map[string]any{
				"name":         "Alice",
				"hand_raised":  true,
				"initial_join": true,
			})
			req := httptest.NewRequest(http.MethodPut, "/spaces/demo/participants/alice", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("alice"))
			Expect(resp["online"]).To(Equal(true))
		})

		It("returns 403 when guests are not admitted", func() {
			participants.upsertFn = func(context.Context, string, string, model.ParticipantPatch, bool) (*model.Participant, error) {
				return nil, service.ErrGuestsNotAllowed
			}

			body := bytes.NewBufferString(`{"identity": "guest"}`)
			req := httptest.NewRequest(http.MethodPut, "/spaces/demo/participants/visitor", body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 400 on a malformed body", func() {
			body := bytes.NewBufferString(`{"name":`)
			req := httptest.NewRequest(http.MethodPut, "/spaces/demo/participants/alice", body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Remove", func() {
		It("reports when the space went down with the participant", func() {
			participants.removeFn = func(context.Context, string, string) (service.RemoveOutcome, error) {
				return service.RemoveOutcome{SpaceCleared: true}, nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/spaces/demo/participants/alice", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]bool
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["removed"]).To(BeTrue())
			Expect(resp["space_cleared"]).To(BeTrue())
		})

		It("returns 404 for an unknown participant", func() {
			participants.removeFn = func(context.Context, string, string) (service.RemoveOutcome, error) {
				return service.RemoveOutcome{}, service.ErrParticipantNotFound
			}

			req := httptest.NewRequest(http.MethodDelete, "/spaces/demo/participants/ghost", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
