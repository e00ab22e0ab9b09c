package httpserver_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/redirect-monitor/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	var log *slog.Logger

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Context("server creation", func() {
		noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

		It("creates server with valid address", func() {
			srv, err := httpserver.New("localhost:9999", noop, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("creates server with IP address", func() {
			srv, err := httpserver.New("127.0.0.1:9999", noop, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("handles port-only address", func() {
			srv, err := httpserver.New(":9999", noop, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal(":9999"))
		})

		It("rejects invalid address", func() {
			srv, err := httpserver.New("invalid:host:port", noop, log)
			Expect(err).To(HaveOccurred())
			Expect(srv).To(BeNil())
		})
	})

	Context("server lifecycle", func() {
		var testServer *httpserver.Server

		AfterEach(func() {
			if testServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = testServer.Shutdown(ctx)
			}
		})

		It("starts and handles requests", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			go func() {
				testServer.Start()
			}()

			var resp *http.Response
			Eventually(func() error {
				resp, err = http.Get("http://" + testServer.Addr())
				return err
			}).Should(Succeed())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("shuts down gracefully", func() {
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", http.NotFoundHandler(), log)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			done := make(chan error, 1)
			go func() {
				done <- testServer.Start()
			}()

			Eventually(func() error {
				resp, err := http.Get("http://" + testServer.Addr())
				if err == nil {
					resp.Body.Close()
				}
				return err
			}).Should(Succeed())

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			Expect(testServer.Shutdown(ctx)).To(Succeed())
			Eventually(done).Should(Receive(BeNil()))
		})
	})
})
