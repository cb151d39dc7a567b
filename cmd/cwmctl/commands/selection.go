package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Put the selection overlay on a client's node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqSelect, ipc.ClientArg{Client: clientSel()})
	},
}

var selectDirCmd = &cobra.Command{
	Use:   "select-dir <side>",
	Short: "Preselect a split side for the next client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := parseSide(args[0])
		if err != nil {
			return err
		}
		return send(ipc.ReqSelectDir, ipc.SideArg{Side: side})
	},
}

var selectParentCmd = &cobra.Command{
	Use:   "select-parent",
	Short: "Widen the selection to the parent node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqSelectParent, nil)
	},
}

var preselAmtCmd = &cobra.Command{
	Use:   "presel-amt <ratio>",
	Short: "Set the share the preselection reserves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratio, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return err
		}
		return send(ipc.ReqPreselAmt, ipc.RatioArg{Ratio: float32(ratio)})
	},
}

var selectionCancelCmd = &cobra.Command{
	Use:   "select-cancel",
	Short: "Clear the selection overlay",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(ipc.ReqSelectionCancel, nil)
	},
}

func init() {
	addWindowFlag(selectCmd)
	rootCmd.AddCommand(selectCmd, selectDirCmd, selectParentCmd, preselAmtCmd, selectionCancelCmd)
}
