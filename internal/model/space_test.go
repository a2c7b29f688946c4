package model_test

import (
	"encoding/json"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tessera.app/spaced/internal/model"
)

var _ = Describe("Space", func() {
	Describe("UnmarshalJSON", func() {
		It("rebuilds the map fields when the keys are absent", func() {
			// A space with no rooms serializes without the rooms key; decoding
			// must still hand back maps that can be assigned into.
			raw := []byte(`{"name":"demo","participants":{}}`)

			var sp model.Space
			Expect(json.Unmarshal(raw, &sp)).To(Succeed())

			Expect(sp.Rooms).NotTo(BeNil())
			Expect(sp.Participants).NotTo(BeNil())
			sp.Rooms["lounge"] = model.NewChildRoom("lounge", "alice", false)
			Expect(sp.Rooms).To(HaveLen(1))
		})

		It("survives a round trip of an empty space", func() {
			raw, err := json.Marshal(model.NewSpace("demo"))
			Expect(err).NotTo(HaveOccurred())

			var sp model.Space
			Expect(json.Unmarshal(raw, &sp)).To(Succeed())
			Expect(sp.Rooms).NotTo(BeNil())
		})
	})

	Describe("PolicyFor", func() {
		It("falls back to the default table for missing entries", func() {
			sp := model.NewSpace("demo")
			sp.Policies = map[model.Identity]model.Policy{
				model.IdentityOwner: {AutoRoom: false},
			}

			Expect(sp.PolicyFor(model.IdentityOwner).AutoRoom).To(BeFalse())
			Expect(sp.PolicyFor(model.IdentityCustomer).AutoRoom).To(BeTrue())
		})
	})

	Describe("AddManager", func() {
		var sp *model.Space

		BeforeEach(func() {
			sp = model.NewSpace("demo")
			sp.OwnerID = "alice"
		})

		It("refuses the owner", func() {
			Expect(sp.AddManager("alice")).To(BeFalse())
			Expect(sp.Managers).To(BeEmpty())
		})

		It("refuses duplicates", func() {
			Expect(sp.AddManager("bob")).To(BeTrue())
			Expect(sp.AddManager("bob")).To(BeFalse())
			Expect(sp.Managers).To(HaveLen(1))
		})

		It("stops at the cap", func() {
			for i := 0; i < model.MaxManagers; i++ {
				Expect(sp.AddManager(fmt.Sprintf("m%d", i))).To(BeTrue())
			}
			Expect(sp.AddManager("overflow")).To(BeFalse())
			Expect(sp.Managers).To(HaveLen(model.MaxManagers))
		})
	})

	Describe("RemoveManager", func() {
		It("removes only the named entry", func() {
			sp := model.NewSpace("demo")
			sp.Managers = []string{"a", "b", "c"}
			sp.RemoveManager("b")
			Expect(sp.Managers).To(Equal([]string{"a", "c"}))
			sp.RemoveManager("missing")
			Expect(sp.Managers).To(Equal([]string{"a", "c"}))
		})
	})
})

var _ = Describe("ChildRoom", func() {
	It("tracks membership and occupancy", func() {
		r := model.NewChildRoom("lounge", "alice", true)
		Expect(r.Occupancy()).To(BeZero())

		r.Add("alice")
		r.Add("bob")
		r.Add("bob")
		Expect(r.Occupancy()).To(Equal(2))
		Expect(r.Has("alice")).To(BeTrue())

		r.Remove("alice")
		Expect(r.Has("alice")).To(BeFalse())
		Expect(r.Occupancy()).To(Equal(1))
	})
})
