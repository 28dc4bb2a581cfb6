package sqlite

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aegis/pkg/audit"
)

var _ = Describe("Driver", func() {
	var (
		driver *Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		driver, err = NewDriver(ctx, ":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("round-trips an event with all fields", func() {
		now := time.Now().UTC().Truncate(time.Millisecond)
		ev := &audit.Event{
			ID:            "ev-1",
			Time:          now,
			Outcome:       "safety_blocked",
			Model:         "gpt-4",
			Categories:    []string{"Security Threat", "Prompt Injection"},
			Threats:       []string{"Jailbreak Attempt"},
			ErrorCategory: "hate",
			DurationMs:    42,
		}

		Expect(driver.Append(ctx, ev)).To(Succeed())

		events, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))

		got := events[0]
		Expect(got.ID).To(Equal("ev-1"))
		Expect(got.Outcome).To(Equal("safety_blocked"))
		Expect(got.Model).To(Equal("gpt-4"))
		Expect(got.Categories).To(Equal([]string{"Security Threat", "Prompt Injection"}))
		Expect(got.Threats).To(Equal([]string{"Jailbreak Attempt"}))
		Expect(got.ErrorCategory).To(Equal("hate"))
		Expect(got.DurationMs).To(Equal(int64(42)))
	})

	It("round-trips an event with empty slice fields", func() {
		Expect(driver.Append(ctx, &audit.Event{
			ID:      "ev-2",
			Time:    time.Now().UTC(),
			Outcome: "completed",
		})).To(Succeed())

		events, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(events[0].Categories).To(BeEmpty())
		Expect(events[0].Threats).To(BeEmpty())
	})

	It("rejects a nil event", func() {
		Expect(driver.Append(ctx, nil)).To(MatchError(audit.ErrNilEvent))
	})

	It("rejects duplicate event ids", func() {
		ev := &audit.Event{ID: "dup", Time: time.Now().UTC(), Outcome: "completed"}
		Expect(driver.Append(ctx, ev)).To(Succeed())
		Expect(driver.Append(ctx, ev)).NotTo(Succeed())
	})

	It("lists most recent first with a limit", func() {
		base := time.Now().UTC()
		for i := range 5 {
			Expect(driver.Append(ctx, &audit.Event{
				ID:      fmt.Sprintf("ev-%d", i),
				Time:    base.Add(time.Duration(i) * time.Second),
				Outcome: "completed",
			})).To(Succeed())
		}

		events, err := driver.List(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(3))
		Expect(events[0].ID).To(Equal("ev-4"))
		Expect(events[1].ID).To(Equal("ev-3"))
		Expect(events[2].ID).To(Equal("ev-2"))
	})
})
