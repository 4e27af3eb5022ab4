package transport

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wprsproj/wprs/protocol"
)

func serverClientPair(t *testing.T) (server *Server, accepted *Conn, client *Client) {
	t.Helper()
	srv, err := Listen(Endpoint{Network: "tcp", Address: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	acceptedCh := make(chan *Conn, 1)
	acceptErrCh := make(chan error, 1)
	go func() {
		c, err := srv.Accept()
		if err != nil {
			acceptErrCh <- err
			return
		}
		acceptedCh <- c
	}()

	cl, err := Dial(Endpoint{Network: "tcp", Address: srv.Addr().String()})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { cl.Close() })

	select {
	case c := <-acceptedCh:
		accepted = c
		t.Cleanup(func() { accepted.Close() })
	case err := <-acceptErrCh:
		t.Fatalf("Accept: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Accept")
	}
	return srv, accepted, cl
}

func TestHandshakeAndRequestRoundTrip(t *testing.T) {
	_, serverConn, client := serverClientPair(t)

	want := protocol.Capabilities{Xwayland: true}
	if err := serverConn.SendRequest(want); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	got, err := client.Conn().RecvRequest()
	if err != nil {
		t.Fatalf("RecvRequest: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestEventRoundTripOverConn(t *testing.T) {
	_, serverConn, client := serverClientPair(t)

	want := protocol.Event(protocol.WprsClientConnect{})
	if err := client.Conn().SendEvent(want); err != nil {
		t.Fatalf("SendEvent: %v", err)
	}
	got, err := serverConn.RecvEvent()
	if err != nil {
		t.Fatalf("RecvEvent: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestRawBufferRoundTrip(t *testing.T) {
	_, serverConn, client := serverClientPair(t)

	want := []byte{1, 2, 3, 4, 5}
	if err := serverConn.SendRawBuffer(want); err != nil {
		t.Fatalf("SendRawBuffer: %v", err)
	}
	kind, _, got, err := client.Conn().ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if kind != FrameRawBuffer {
		t.Fatalf("kind = %d, want FrameRawBuffer", kind)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("raw buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFrameDistinguishesRequestFromRawBuffer(t *testing.T) {
	_, serverConn, client := serverClientPair(t)

	if err := serverConn.SendRawBuffer([]byte{9, 9}); err != nil {
		t.Fatalf("SendRawBuffer: %v", err)
	}
	wantReq := protocol.Request(protocol.Capabilities{Xwayland: true})
	if err := serverConn.SendRequest(wantReq); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	kind1, _, buf, err := client.Conn().ReadFrame()
	if err != nil || kind1 != FrameRawBuffer || string(buf) != "\x09\x09" {
		t.Fatalf("first frame = (%d, %v, %q)", kind1, err, buf)
	}
	kind2, req, _, err := client.Conn().ReadFrame()
	if err != nil || kind2 != FrameRequest {
		t.Fatalf("second frame = (%d, %v, %v)", kind2, err, req)
	}
	if diff := cmp.Diff(wantReq, req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscardingSenderDropsWhenNotConnected(t *testing.T) {
	_, serverConn, _ := serverClientPair(t)
	connected := &OtherEndConnected{}
	sender := NewDiscardingSender(serverConn, connected)

	if err := sender.Send(protocol.Capabilities{}); err != nil {
		t.Fatalf("Send while disconnected returned error: %v", err)
	}

	connected.Set(true)
	if err := sender.Send(protocol.Capabilities{Xwayland: true}); err != nil {
		t.Fatalf("Send while connected: %v", err)
	}
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	_, serverConn, _ := serverClientPair(t)
	serverConn.Close()
	if err := serverConn.SendRequest(protocol.Capabilities{}); err == nil {
		t.Fatal("expected error sending on a closed connection")
	}
}

func TestInfallibleSenderPanicsOnClosedConn(t *testing.T) {
	_, serverConn, _ := serverClientPair(t)
	serverConn.Close()
	sender := NewInfallibleSender(serverConn)
	defer func() {
		if recover() == nil {
			t.Fatal("expected Send on closed connection to panic")
		}
	}()
	sender.Send(protocol.WprsClientConnect{})
}
