package eventsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/priyankark/fetch-event-source/pkg/sse"
)

var _ = Describe("Subscribe over a real HTTP server", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("resumes after an abrupt connection drop, replaying the last id", func() {
		var attempt atomic.Int32
		lastIDSeen := make(chan string, 1)

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := attempt.Add(1)
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			flusher, ok := w.(http.Flusher)
			Expect(ok).To(BeTrue())

			if n == 1 {
				fmt.Fprint(w, "id: 7\ndata: first\n\n")
				flusher.Flush()
				// Drop the connection mid-stream.
				panic(http.ErrAbortHandler)
			}

			lastIDSeen <- r.Header.Get("Last-Event-ID")
			fmt.Fprint(w, "data: second\n\n")
			flusher.Flush()
		}))

		var got []string
		err := Subscribe(context.Background(), server.URL,
			WithInitialRetry(10*time.Millisecond),
			WithOnMessage(func(m sse.Message) { got = append(got, *m.Data) }),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]string{"first", "second"}))
		Expect(lastIDSeen).To(Receive(Equal("7")))
		Expect(attempt.Load()).To(Equal(int32(2)))
	})

	It("surfaces a fatal validation error for a non-stream endpoint", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))

		err := Subscribe(context.Background(), server.URL,
			WithOnError(func(e error) (time.Duration, error) { return 0, e }),
		)

		var verr *ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(verr.Error()).To(ContainSubstring("404"))
	})
})
