package wm

import (
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
)

// inboundRequest pairs a decoded request with the stream that sent it.
type inboundRequest struct {
	req  ipc.Request
	conn *ipcConn
}

// ipcConn is one connected control stream. Writes are serialised so the
// dispatcher and subscription broadcasts never interleave frames.
type ipcConn struct {
	conn net.Conn
	mu   sync.Mutex
	dead bool
}

// Send writes one response frame. An error marks the stream dead; hook
// tables prune it on the next delivery.
func (c *ipcConn) Send(resp ipc.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return fmt.Errorf("stream closed")
	}
	if err := ipc.WriteMessage(c.conn, resp); err != nil {
		c.dead = true
		c.conn.Close()
		return err
	}
	return nil
}

func (c *ipcConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dead = true
	c.conn.Close()
}

type server struct {
	listener net.Listener
	path     string
}

// startServer binds the control socket and feeds decoded requests into
// the manager's queue.
func (wm *WindowManager) startServer() error {
	path := ipc.SocketPath()
	_ = os.Remove(path)
	listener, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("failed to bind control socket %s: %w", path, err)
	}
	wm.srv = &server{listener: listener, path: path}
	go wm.acceptLoop()
	return nil
}

func (wm *WindowManager) acceptLoop() {
	log := logger.WithComponent("ipc")
	for {
		conn, err := wm.srv.listener.Accept()
		if err != nil {
			return
		}
		ic := &ipcConn{conn: conn}
		log.Debug().Msg("control stream connected")
		go wm.readLoop(ic)
	}
}

// readLoop decodes frames off one stream until it fails; a decode
// failure is a transport event that closes the stream.
func (wm *WindowManager) readLoop(c *ipcConn) {
	defer c.close()
	for {
		var req ipc.Request
		if err := ipc.ReadMessage(c.conn, &req); err != nil {
			return
		}
		wm.requests <- inboundRequest{req: req, conn: c}
	}
}

func (wm *WindowManager) stopServer() {
	if wm.srv != nil {
		wm.srv.listener.Close()
		os.Remove(wm.srv.path)
	}
}

// Run is the event loop: display events and IPC requests drain into the
// model, and each iteration ends with one flush so the server sees a
// coherent batch.
func (wm *WindowManager) Run() error {
	if err := wm.startServer(); err != nil {
		return err
	}
	defer wm.stopServer()

	events := wm.aux.Dpy.Events()
	for wm.running {
		select {
		case ev, ok := <-events:
			if !ok {
				wm.stopServer()
				return fmt.Errorf("display connection lost")
			}
			wm.handleEvent(ev)
		case in := <-wm.requests:
			// X events outrank IPC within an iteration
			wm.drainEvents(events)
			wm.Dispatch(in.req, in.conn)
		}
		wm.drainEvents(events)
		wm.drainRequests()
		wm.aux.Dpy.Flush()
	}
	return nil
}

func (wm *WindowManager) drainEvents(events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			wm.handleEvent(ev)
		default:
			return
		}
	}
}

func (wm *WindowManager) drainRequests() {
	for {
		select {
		case in := <-wm.requests:
			wm.Dispatch(in.req, in.conn)
		default:
			return
		}
	}
}
