package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwm-x11/cwm/internal/ipc"
)

func colorCommand(use, short, reqType string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <argb>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return err
			}
			return send(reqType, ipc.ColorArg{Color: uint32(color)})
		},
	}
}

var borderWidthCmd = &cobra.Command{
	Use:   "border-width <pixels>",
	Short: "Set the client border width",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		return send(ipc.ReqBorderWidth, ipc.WidthArg{Width: uint16(width)})
	},
}

var gapCmd = &cobra.Command{
	Use:   "gap <pixels>",
	Short: "Set the inter-pane gap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gap, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		return send(ipc.ReqGap, ipc.GapArg{Gap: uint16(gap)})
	},
}

var marginCmd = &cobra.Command{
	Use:   "margin <side> <pixels>",
	Short: "Set one screen margin",
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
		return send(ipc.ReqMargin, ipc.MarginArg{Side: side, Amount: int16(amount)})
	},
}

var (
	ruleClass    string
	ruleInstance string
	ruleName     string
	ruleFloating bool
	ruleWidth    uint16
	ruleHeight   uint16
	ruleX        int16
	ruleY        int16
	ruleTemp     bool
)

var addRuleCmd = &cobra.Command{
	Use:   "add-rule",
	Short: "Add a window placement rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := ipc.Rule{Temp: ruleTemp}
		if cmd.Flags().Changed("class") {
			rule.Class = &ruleClass
		}
		if cmd.Flags().Changed("instance") {
			rule.Instance = &ruleInstance
		}
		if cmd.Flags().Changed("name") {
			rule.Name = &ruleName
		}
		if cmd.Flags().Changed("floating") {
			rule.Floating = &ruleFloating
		}
		if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
			size := [2]uint16{ruleWidth, ruleHeight}
			rule.Size = &size
		}
		if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
			pos := [2]int16{ruleX, ruleY}
			rule.Pos = &pos
		}
		return send(ipc.ReqAddRule, rule)
	},
}

func init() {
	addRuleCmd.Flags().StringVar(&ruleClass, "class", "", "match on WM_CLASS class")
	addRuleCmd.Flags().StringVar(&ruleInstance, "instance", "", "match on WM_CLASS instance")
	addRuleCmd.Flags().StringVar(&ruleName, "name", "", "match on window name")
	addRuleCmd.Flags().BoolVar(&ruleFloating, "floating", false, "start the window floating")
	addRuleCmd.Flags().Uint16Var(&ruleWidth, "width", 0, "initial floating width")
	addRuleCmd.Flags().Uint16Var(&ruleHeight, "height", 0, "initial floating height")
	addRuleCmd.Flags().Int16Var(&ruleX, "x", 0, "initial floating x")
	addRuleCmd.Flags().Int16Var(&ruleY, "y", 0, "initial floating y")
	addRuleCmd.Flags().BoolVar(&ruleTemp, "temp", false, "consume the rule on first match")

	rootCmd.AddCommand(
		colorCommand("border-focused", "Set the focused border colour", ipc.ReqBorderFocused),
		colorCommand("border-unfocused", "Set the unfocused border colour", ipc.ReqBorderUnfocused),
		borderWidthCmd, gapCmd, marginCmd, addRuleCmd,
	)
}
