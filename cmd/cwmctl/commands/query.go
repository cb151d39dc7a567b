package commands

import (
	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

var focusedMonitorCmd = &cobra.Command{
	Use:   "focused-monitor",
	Short: "Print the focused monitor id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqFocusedMonitor, nil)
	},
}

var focusedTagCmd = &cobra.Command{
	Use:   "focused-tag",
	Short: "Print a monitor's focused tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqFocusedTag, ipc.MonArg{Mon: monSel()})
	},
}

var focusedWindowCmd = &cobra.Command{
	Use:   "focused-window",
	Short: "Print a tag's focused window id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqFocusedWindow, ipc.TagArg{Tag: tagSel()})
	},
}

var monitorNameCmd = &cobra.Command{
	Use:   "monitor-name",
	Short: "Print a monitor's name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqMonitorName, ipc.MonArg{Mon: monSel()})
	},
}

var tagNameCmd = &cobra.Command{
	Use:   "tag-name",
	Short: "Print a tag's name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqTagName, ipc.TagArg{Tag: tagSel()})
	},
}

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Print a tag's stacking layers, front to back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqViewLayers, ipc.TagArg{Tag: tagSel()})
	},
}

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Print a tag's focus stack",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqViewStack, ipc.TagArg{Tag: tagSel()})
	},
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Print a tag's clients with their flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(ipc.ReqViewClients, ipc.TagArg{Tag: tagSel()})
	},
}

var monitorFocusCmd = &cobra.Command{
	Use:   "monitor-focus",
	Short: "Stream the focused-client name of a monitor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return subscribe(ipc.ReqMonitorFocus, ipc.MonArg{Mon: monSel()})
	},
}

var tagStateCmd = &cobra.Command{
	Use:   "tag-state",
	Short: "Stream tag states as they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		return subscribe(ipc.ReqTagState, nil)
	},
}

func init() {
	addMonitorFlag(focusedTagCmd)
	addMonitorFlag(monitorNameCmd)
	addMonitorFlag(monitorFocusCmd)
	for _, cmd := range []*cobra.Command{focusedWindowCmd, tagNameCmd, layersCmd, stackCmd, clientsCmd} {
		addTagFlags(cmd)
	}
	rootCmd.AddCommand(focusedMonitorCmd, focusedTagCmd, focusedWindowCmd,
		monitorNameCmd, tagNameCmd, layersCmd, stackCmd, clientsCmd,
		monitorFocusCmd, tagStateCmd)
}
