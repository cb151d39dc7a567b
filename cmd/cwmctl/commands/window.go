package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

var flagKill bool

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close a client, gracefully when it supports WM_DELETE_WINDOW",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqCloseClient, ipc.CloseClientArg{Client: clientSel(), Kill: flagKill})
	},
}

func flagCommand(use, short, reqType string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " {on|off|toggle}",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg, err := parseSetArg(args[0])
			if err != nil {
				return err
			}
			return send(reqType, ipc.ClientFlagArg{Client: clientSel(), Arg: arg})
		},
	}
	addWindowFlag(cmd)
	return cmd
}

var layerCmd = &cobra.Command{
	Use:   "layer {below|normal|above} [--toggle]",
	Short: "Set a client's stacking band",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var layer ipc.StackLayer
		switch args[0] {
		case "below":
			layer = ipc.LayerBelow
		case "normal":
			layer = ipc.LayerNormal
		case "above":
			layer = ipc.LayerAbove
		default:
			return cmd.Usage()
		}
		toggle, _ := cmd.Flags().GetBool("toggle")
		return send(ipc.ReqSetLayer, ipc.ClientLayerArg{
			Client: clientSel(),
			Arg:    ipc.SetArg[ipc.StackLayer]{Val: layer, Toggle: toggle},
		})
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <side> <amount>",
	Short: "Move a client edge by a pixel amount",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := parseSide(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseInt(args[1], 10, 16)
		if err != nil {
			return err
		}
		return send(ipc.ReqResizeWindow, ipc.ResizeArg{
			Client: clientSel(), Side: side, Amount: int16(amount),
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <side> <amount>",
	Short: "Move a floating client, or swap a tiled one with its neighbour",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := parseSide(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return err
		}
		return send(ipc.ReqMoveWindow, ipc.MoveArg{
			Client: clientSel(), Side: side, Amount: uint16(amount),
		})
	},
}

var focusDirCmd = &cobra.Command{
	Use:   "focus-dir <side>",
	Short: "Focus the neighbouring client on a side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := parseSide(args[0])
		if err != nil {
			return err
		}
		return send(ipc.ReqSelectNeighbour, ipc.NeighbourArg{Client: clientSel(), Side: side})
	},
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Cycle focus through the visible clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("reverse")
		return send(ipc.ReqCycleWindow, ipc.CycleArg{Reverse: reverse})
	},
}

var toTagCmd = &cobra.Command{
	Use:   "to-tag",
	Short: "Move a client to another tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		toggle, _ := cmd.Flags().GetBool("toggle")
		return send(ipc.ReqSetWindowTag, ipc.WindowTagArg{
			Client: clientSel(), Tag: tagSel(), Toggle: toggle,
		})
	},
}

func init() {
	addWindowFlag(closeCmd)
	closeCmd.Flags().BoolVar(&flagKill, "kill", false, "kill without asking")

	fullscreenCmd := flagCommand("fullscreen", "Set a client's fullscreen state", ipc.ReqSetFullscreen)
	floatingCmd := flagCommand("floating", "Set a client's floating state", ipc.ReqSetFloating)
	stickyCmd := flagCommand("sticky", "Make a client follow monitor focus", ipc.ReqSetSticky)
	hiddenCmd := flagCommand("hidden", "Hide a client into the tag's hidden queue", ipc.ReqSetHidden)

	addWindowFlag(layerCmd)
	layerCmd.Flags().Bool("toggle", false, "toggle back to the previous band")
	addWindowFlag(resizeCmd)
	addWindowFlag(moveCmd)
	addWindowFlag(focusDirCmd)
	cycleCmd.Flags().Bool("reverse", false, "cycle the other way")
	addWindowFlag(toTagCmd)
	addTagFlags(toTagCmd)
	toTagCmd.Flags().Bool("toggle", false, "bounce back to the previous tag")

	rootCmd.AddCommand(closeCmd, fullscreenCmd, floatingCmd, stickyCmd, hiddenCmd,
		layerCmd, resizeCmd, moveCmd, focusDirCmd, cycleCmd, toTagCmd)
}
