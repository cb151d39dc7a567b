package commands

import (
	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

var focusTagCmd = &cobra.Command{
	Use:   "focus-tag",
	Short: "Display a tag on a monitor",
	RunE: func(cmd *cobra.Command, args []string) error {
		toggle, _ := cmd.Flags().GetBool("toggle")
		return send(ipc.ReqFocusTag, ipc.FocusTagArg{
			Mon: monSel(), Tag: tagSel(), Toggle: toggle,
		})
	},
}

var monocleCmd = &cobra.Command{
	Use:   "monocle {on|off|toggle}",
	Short: "Give every tiled client the full tiling region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg, err := parseSetArg(args[0])
		if err != nil {
			return err
		}
		return send(ipc.ReqSetMonocle, ipc.MonocleArg{Tag: tagSel(), Arg: arg})
	},
}

var showCmd = &cobra.Command{
	Use:   "show {first|last|all}",
	Short: "Restore hidden clients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode ipc.ShowMode
		switch args[0] {
		case "first":
			mode = ipc.ShowFirst
		case "last":
			mode = ipc.ShowLast
		case "all":
			mode = ipc.ShowAll
		default:
			return cmd.Usage()
		}
		return send(ipc.ReqShow, ipc.ShowArg{Tag: tagSel(), Mode: mode})
	},
}

var addTagCmd = &cobra.Command{
	Use:   "add-tag <name>",
	Short: "Register a new tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqAddTag, ipc.AddTagArg{Name: args[0]})
	},
}

var removeTagCmd = &cobra.Command{
	Use:   "remove-tag",
	Short: "Remove an empty tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqRemoveTag, ipc.TagArg{Tag: tagSel()})
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the selected subtree (or the whole tree)",
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("reverse")
		return send(ipc.ReqRotate, ipc.RotateArg{Reverse: reverse})
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the window manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqQuit, nil)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read the configuration and replay monitor hooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqReload, nil)
	},
}

func init() {
	addMonitorFlag(focusTagCmd)
	addTagFlags(focusTagCmd)
	focusTagCmd.Flags().Bool("toggle", false, "refocusing the current tag switches to the previous one")
	addTagFlags(monocleCmd)
	addTagFlags(showCmd)
	addTagFlags(removeTagCmd)
	rotateCmd.Flags().Bool("reverse", false, "rotate the other way")

	rootCmd.AddCommand(focusTagCmd, monocleCmd, showCmd, addTagCmd, removeTagCmd,
		rotateCmd, quitCmd, reloadCmd)
}
