package tlsserver

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/certgen"
	"github.com/stauffenbits/casg/internal/infra/fileserver"
)

type harness struct {
	srv    *Server
	root   string
	client *http.Client
	tlsCfg *tls.Config
	cancel context.CancelFunc
	done   chan error
}

func (h *harness) url(p string) string {
	return "https://" + h.srv.Addr() + p
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func newCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	certPEM, keyPEM, err := certgen.PEM([]string{"localhost", "127.0.0.1"}, time.Hour)
	require.NoError(t, err)

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	require.True(t, pool.AppendCertsFromPEM(certPEM))
	return cert, pool
}

func writeFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()

	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "outside.txt"), []byte("secret outside root"), 0o644))
	for name, b := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, b, 0o644))
	}
	return root
}

func start(t *testing.T, files map[string][]byte) *harness {
	t.Helper()

	root := writeFiles(t, files)
	h, err := fileserver.New(root)
	require.NoError(t, err)

	hs := startHandler(t, h, time.Second)
	hs.root = root
	return hs
}

func startHandler(t *testing.T, h http.Handler, shutdownTimeout time.Duration) *harness {
	t.Helper()

	cert, pool := newCert(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(domain.ServerConfig{Addr: "127.0.0.1:0", ShutdownTimeout: shutdownTimeout}, cert, h, log)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	tlsCfg := &tls.Config{RootCAs: pool, ServerName: "localhost"}
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsCfg, ForceAttemptHTTP2: true},
		Timeout:   5 * time.Second,
	}

	hs := &harness{srv: srv, client: client, tlsCfg: tlsCfg, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		client.CloseIdleConnections()
	})
	return hs
}

func get(t *testing.T, h *harness, p string) (int, []byte, *http.Response) {
	t.Helper()
	resp, err := h.client.Get(h.url(p))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp
}

func TestServer_HandshakeAndFile(t *testing.T) {
	content := []byte("hello over tls\n")
	h := start(t, map[string][]byte{"hello.txt": content})

	status, body, resp := get(t, h, "/hello.txt")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, content, body)
	require.NotNil(t, resp.TLS)
	require.True(t, resp.TLS.HandshakeComplete)
	require.Equal(t, "HTTP/1.1", resp.Proto)
	require.Equal(t, fmt.Sprint(len(content)), resp.Header.Get("Content-Length"))

	h.stop(t)
}

func TestServer_NotFound(t *testing.T) {
	h := start(t, map[string][]byte{"hello.txt": []byte("x")})

	status, _, _ := get(t, h, "/missing.txt")
	require.Equal(t, http.StatusNotFound, status)

	h.stop(t)
}

func TestServer_TraversalRejected(t *testing.T) {
	h := start(t, map[string][]byte{"hello.txt": []byte("x")})

	for _, target := range []string{"/../outside.txt", "/%2e%2e/outside.txt", "/a/../../outside.txt"} {
		conn, err := tls.Dial("tcp", h.srv.Addr(), h.tlsCfg)
		require.NoError(t, err)

		_, err = fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n", target)
		require.NoError(t, err)

		resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		conn.Close()

		require.NotEqual(t, http.StatusOK, resp.StatusCode, target)
		require.GreaterOrEqual(t, resp.StatusCode, 400, target)
		require.NotContains(t, string(body), "secret outside root", target)
	}

	h.stop(t)
}

func TestServer_ConcurrentRequests(t *testing.T) {
	a := bytes.Repeat([]byte("a"), 512*1024)
	b := bytes.Repeat([]byte("b"), 512*1024)
	h := start(t, map[string][]byte{"a.bin": a, "b.bin": b})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		name, want := "/a.bin", a
		if i%2 == 1 {
			name, want = "/b.bin", b
		}
		wg.Add(1)
		go func(name string, want []byte) {
			defer wg.Done()
			resp, err := h.client.Get(h.url(name))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			got, err := io.ReadAll(resp.Body)
			if err != nil {
				errs <- err
				return
			}
			if resp.StatusCode != http.StatusOK || !bytes.Equal(got, want) {
				errs <- fmt.Errorf("%s: status=%d len=%d", name, resp.StatusCode, len(got))
			}
		}(name, want)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	h.stop(t)
}

func TestServer_SecondInstanceFailsToBind(t *testing.T) {
	h := start(t, map[string][]byte{"hello.txt": []byte("x")})
	cert, _ := newCert(t)

	second := New(domain.ServerConfig{Addr: h.srv.Addr()}, cert, http.NotFoundHandler(), nil)
	err := second.Listen()
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.KindBind), "got %v", err)
	require.ErrorIs(t, err, domain.ErrBind)

	err = second.Serve(context.Background())
	require.True(t, domain.IsKind(err, domain.KindBind), "got %v", err)

	// The first instance is unaffected.
	status, _, _ := get(t, h, "/hello.txt")
	require.Equal(t, http.StatusOK, status)

	h.stop(t)
}

func TestServer_HandshakeFailureKeepsListening(t *testing.T) {
	h := start(t, map[string][]byte{"hello.txt": []byte("still here")})

	// Plaintext garbage instead of a ClientHello.
	conn, err := net.Dial("tcp", h.srv.Addr())
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	_, _ = conn.Write([]byte("GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	_, _ = io.ReadAll(conn)
	conn.Close()

	// A client that does not trust the certificate aborts the handshake.
	untrusted := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{ServerName: "localhost"}}}
	_, err = untrusted.Get(h.url("/hello.txt"))
	require.Error(t, err)

	status, body, _ := get(t, h, "/hello.txt")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "still here", string(body))

	h.stop(t)
}

func TestServer_StopsOnContextCancel(t *testing.T) {
	h := start(t, map[string][]byte{"hello.txt": []byte("x")})
	addr := h.srv.Addr()

	status, _, _ := get(t, h, "/hello.txt")
	require.Equal(t, http.StatusOK, status)

	h.stop(t)
	h.client.CloseIdleConnections()

	_, err := net.DialTimeout("tcp", addr, time.Second)
	require.Error(t, err)
}

func TestServer_AddrBeforeListen(t *testing.T) {
	cert, _ := newCert(t)
	srv := New(domain.ServerConfig{Addr: "127.0.0.1:0"}, cert, http.NotFoundHandler(), nil)
	require.Equal(t, "127.0.0.1:0", srv.Addr())

	require.NoError(t, srv.Listen())
	require.NoError(t, srv.Listen())
	require.NotEqual(t, "127.0.0.1:0", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Serve(ctx))
}

type result struct {
	status int
	body   string
	err    error
}

func fetch(h *harness, p string) <-chan result {
	ch := make(chan result, 1)
	go func() {
		resp, err := h.client.Get(h.url(p))
		if err != nil {
			ch <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		ch <- result{status: resp.StatusCode, body: string(b), err: err}
	}()
	return ch
}

func TestServer_ShutdownWaitsForInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(300 * time.Millisecond)
		_, _ = io.WriteString(w, "done")
	})
	h := startHandler(t, slow, 2*time.Second)

	res := fetch(h, "/slow")
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	h.cancel()

	select {
	case r := <-res:
		require.NoError(t, r.err)
		require.Equal(t, http.StatusOK, r.status)
		require.Equal(t, "done", r.body)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}

	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ShutdownTimeoutForcesClose(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	stuck := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})
	h := startHandler(t, stuck, 100*time.Millisecond)

	res := fetch(h, "/stuck")
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	begin := time.Now()
	h.cancel()

	select {
	case err := <-h.done:
		require.NoError(t, err)
		require.Less(t, time.Since(begin), 3*time.Second)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after the shutdown timeout")
	}

	select {
	case r := <-res:
		require.Error(t, r.err)
	case <-time.After(5 * time.Second):
		t.Fatal("client was not disconnected")
	}
}
