package cache_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/redirect-monitor/internal/cache"
)

func statusPtr(code int) *int {
	return &code
}

var _ = Describe("Classify", func() {
	now := time.Now()

	DescribeTable("should classify by status code",
		func(code int, healthy bool) {
			res := cache.Classify("/r/", "https://example.com", statusPtr(code), "", now)

			Expect(res.IsHealthy).To(Equal(healthy))
			Expect(res.StatusCode()).To(Equal(code))
		},
		Entry("200 is healthy", 200, true),
		Entry("301 is healthy", 301, true),
		Entry("404 is healthy", 404, true),
		Entry("429 is healthy", 429, true),
		Entry("500 is unhealthy", 500, false),
		Entry("503 is unhealthy", 503, false),
	)

	It("should describe server errors", func() {
		res := cache.Classify("/r/", "https://example.com", statusPtr(503), "", now)
		Expect(res.Error).To(Equal("Server returned 503"))
	})

	It("should leave the error empty for reachable destinations", func() {
		res := cache.Classify("/r/", "https://example.com", statusPtr(404), "", now)
		Expect(res.Error).To(BeEmpty())
	})

	It("should mark a missing response as unhealthy with the probe error", func() {
		res := cache.Classify("/r/", "https://example.com", nil, "Request timeout", now)

		Expect(res.Status).To(BeNil())
		Expect(res.IsHealthy).To(BeFalse())
		Expect(res.Error).To(Equal("Request timeout"))
		Expect(res.StatusCode()).To(Equal(0))
	})

	It("should not alias the caller's status", func() {
		code := 200
		res := cache.Classify("/r/", "https://example.com", &code, "", now)
		code = 500

		Expect(*res.Status).To(Equal(200))
	})

	It("should marshal a missing status as null", func() {
		res := cache.Classify("/r/", "https://example.com", nil, "dial tcp: refused", now)

		data, err := json.Marshal(res)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]interface{}
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("status", BeNil()))
		Expect(decoded).To(HaveKeyWithValue("isHealthy", false))
		Expect(decoded).To(HaveKeyWithValue("error", "dial tcp: refused"))
	})

	It("should omit the error when healthy", func() {
		res := cache.Classify("/r/", "https://example.com", statusPtr(200), "", now)

		data, err := json.Marshal(res)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring(`"error"`))
	})
})
