package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("RecordProbe", func() {
		It("should count probes per route", func() {
			m.RecordProbe("/a/", 10*time.Millisecond, 200)
			m.RecordProbe("/a/", 10*time.Millisecond, 200)
			m.RecordProbe("/b/", 10*time.Millisecond, 200)

			snap := m.Snapshot()
			Expect(snap.TotalProbes).To(Equal(int64(3)))
			Expect(snap.Routes["/a/"].Probes).To(Equal(int64(2)))
			Expect(snap.Routes["/b/"].Probes).To(Equal(int64(1)))
		})

		It("should record latency and status code", func() {
			m.RecordProbe("/a/", 100*time.Millisecond, 200)
			m.RecordProbe("/a/", 200*time.Millisecond, 503)

			route := m.Snapshot().Routes["/a/"]
			Expect(route.AvgLatency).To(Equal(150 * time.Millisecond))
			Expect(route.StatusCodes[200]).To(Equal(int64(1)))
			Expect(route.StatusCodes[503]).To(Equal(int64(1)))
		})

		It("should not count a missing response as a status code", func() {
			m.RecordProbe("/a/", 10*time.Second, 0)

			route := m.Snapshot().Routes["/a/"]
			Expect(route.Probes).To(Equal(int64(1)))
			Expect(route.StatusCodes).To(BeEmpty())
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordProbe("/a/", time.Duration(i)*time.Millisecond, 200)
			}

			route := m.Snapshot().Routes["/a/"]
			Expect(route.P50Latency).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(route.P95Latency).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(route.P99Latency).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored latencies to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordProbe("/a/", time.Duration(i)*time.Millisecond, 200)
			}

			route := m.Snapshot().Routes["/a/"]
			Expect(route.AvgLatency).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("UpdateHealthStatus", func() {
		It("should track health changes", func() {
			m.UpdateHealthStatus("/a/", true)
			Expect(m.Snapshot().Routes["/a/"].Healthy).To(BeTrue())

			m.UpdateHealthStatus("/a/", false)
			Expect(m.Snapshot().Routes["/a/"].Healthy).To(BeFalse())
		})
	})

	Describe("passes", func() {
		It("should count completed and skipped passes", func() {
			m.RecordPass(2 * time.Second)
			m.RecordPass(3 * time.Second)
			m.RecordSkippedPass()

			snap := m.Snapshot()
			Expect(snap.Passes).To(Equal(int64(2)))
			Expect(snap.SkippedPasses).To(Equal(int64(1)))
			Expect(snap.LastPassTook).To(Equal(3 * time.Second))
		})
	})

	Describe("RecordRedirect", func() {
		It("should count redirects served per route", func() {
			m.RecordRedirect("/a/")
			m.RecordRedirect("/a/")

			Expect(m.Snapshot().Routes["/a/"].RedirectsServed).To(Equal(int64(2)))
		})
	})

	Describe("Snapshot", func() {
		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot().Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot()
			Expect(snap.TotalProbes).To(Equal(int64(0)))
			Expect(snap.Routes).To(BeEmpty())
		})

		It("should return an independent snapshot", func() {
			m.RecordProbe("/a/", time.Millisecond, 200)
			snap1 := m.Snapshot()
			m.RecordProbe("/a/", time.Millisecond, 200)
			snap2 := m.Snapshot()

			Expect(snap1.TotalProbes).To(Equal(int64(1)))
			Expect(snap2.TotalProbes).To(Equal(int64(2)))
			Expect(snap1.Routes["/a/"].StatusCodes[200]).To(Equal(int64(1)))
		})
	})
})
