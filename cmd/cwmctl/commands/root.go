package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

var rootCmd = &cobra.Command{
	Use:   "cwmctl",
	Short: "cwmctl - control a running cwm instance",
	Long: `cwmctl talks to the cwm control socket. Commands either mutate the
window manager (no output) or query it (JSON on stdout). Selectors
default to the focused client, tag or monitor.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// send delivers one command request and returns.
func send(typ string, payload any) error {
	client, err := ipc.Dial()
	if err != nil {
		return err
	}
	defer client.Close()
	req, err := ipc.NewRequest(typ, payload)
	if err != nil {
		return err
	}
	return client.Send(req)
}

// query delivers one request and prints the response payload. An invalid
// selector yields no reply; the command exits quietly with no output.
func query(typ string, payload any) error {
	client, err := ipc.Dial()
	if err != nil {
		return err
	}
	defer client.Close()
	req, err := ipc.NewRequest(typ, payload)
	if err != nil {
		return err
	}
	if err := client.Send(req); err != nil {
		return err
	}
	resp, ok, err := client.RecvTimeout(2 * time.Second)
	if err != nil || !ok {
		return err
	}
	return printPayload(resp)
}

// subscribe delivers one request and streams every response until the
// daemon goes away.
func subscribe(typ string, payload any) error {
	client, err := ipc.Dial()
	if err != nil {
		return err
	}
	defer client.Close()
	req, err := ipc.NewRequest(typ, payload)
	if err != nil {
		return err
	}
	if err := client.Send(req); err != nil {
		return err
	}
	for {
		resp, err := client.Recv()
		if err != nil {
			return nil
		}
		if err := printPayload(resp); err != nil {
			return err
		}
	}
}

func printPayload(resp ipc.Response) error {
	var out any
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(out)
}

// Shared selector flags.

var (
	flagWindow  uint32
	flagMonitor uint32
)

func clientSel() ipc.ClientSel {
	if flagWindow != 0 {
		w := flagWindow
		return ipc.ClientSel{Win: &w}
	}
	return ipc.ClientSel{}
}

func monSel() ipc.MonSel {
	if flagMonitor != 0 {
		id := flagMonitor
		return ipc.MonSel{ID: &id}
	}
	return ipc.MonSel{}
}

var (
	flagTagIndex int
	flagTagName  string
	flagTagNext  bool
	flagTagPrev  bool
	flagTagLast  bool
)

func tagSel() ipc.TagSel {
	switch {
	case flagTagName != "":
		name := flagTagName
		return ipc.TagSel{Name: &name}
	case flagTagIndex >= 0:
		idx := flagTagIndex
		return ipc.TagSel{Index: &idx}
	case flagTagNext:
		m := monSel()
		return ipc.TagSel{Next: &m}
	case flagTagPrev:
		m := monSel()
		return ipc.TagSel{Prev: &m}
	case flagTagLast:
		m := monSel()
		return ipc.TagSel{Last: &m}
	default:
		m := monSel()
		return ipc.TagSel{Focused: &m}
	}
}

func addTagFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagTagIndex, "tag-index", -1, "tag by position in display order")
	cmd.Flags().StringVar(&flagTagName, "tag-name", "", "tag by name")
	cmd.Flags().BoolVar(&flagTagNext, "next", false, "cyclic successor of the focused tag")
	cmd.Flags().BoolVar(&flagTagPrev, "prev", false, "cyclic predecessor of the focused tag")
	cmd.Flags().BoolVar(&flagTagLast, "last", false, "the monitor's previously focused tag")
}

func addWindowFlag(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&flagWindow, "window", 0, "window id (default: focused client)")
}

func addMonitorFlag(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&flagMonitor, "monitor", 0, "monitor id (default: focused monitor)")
}

// parseSide maps a CLI argument to a Side.
func parseSide(arg string) (ipc.Side, error) {
	switch arg {
	case "left":
		return ipc.Left, nil
	case "right":
		return ipc.Right, nil
	case "top":
		return ipc.Top, nil
	case "bottom":
		return ipc.Bottom, nil
	}
	return "", fmt.Errorf("invalid side %q (want left, right, top or bottom)", arg)
}

// parseSetArg maps on/off/toggle to a SetArg.
func parseSetArg(arg string) (ipc.SetArg[bool], error) {
	switch arg {
	case "on":
		return ipc.SetArg[bool]{Val: true}, nil
	case "off":
		return ipc.SetArg[bool]{Val: false}, nil
	case "toggle":
		return ipc.SetArg[bool]{Val: true, Toggle: true}, nil
	}
	return ipc.SetArg[bool]{}, fmt.Errorf("invalid state %q (want on, off or toggle)", arg)
}
