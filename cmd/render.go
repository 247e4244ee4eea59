package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/pkg/tw"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		dir       string
		values    = newAssignments()
		attrs     = newAssignments()
		raws      = newAssignments()
		sanitized = newAssignments()
		children  = newAssignments()
		events    names
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render an extracted component with slot arguments",
		Long: `Load the artifacts from the output directory and render one component,
filling each {slot} in its body. Every slot must get an argument; extra
arguments are ignored. Nothing is escaped unless --sanitized is used.

--child slot=id renders the component id with the same arguments and puts
the result in slot, which is how nested components are assembled.

Examples:
  tackweld render card --arg title=Hello --attr class=primary
  tackweld render page --child body=card --arg title=Hi --event onclick
  tackweld render comment --sanitized text='<b>hi</b><script>x()</script>'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = cfg.Extract.OutDir
			}

			set, err := tw.LoadDir(dir, cfg.Extract.Prefix)
			if err != nil {
				return err
			}

			slotArgs := tw.Args{}
			for _, name := range values.order {
				slotArgs[name] = tw.Value(values.values[name])
			}
			for _, name := range attrs.order {
				slotArgs[name] = tw.Attribute(attrs.values[name])
			}
			for _, name := range raws.order {
				slotArgs[name] = tw.Raw(raws.values[name])
			}
			for _, name := range sanitized.order {
				slotArgs[name] = tw.Sanitized(sanitized.values[name])
			}
			for _, name := range events {
				slotArgs[name] = tw.Event()
			}
			for _, slot := range children.order {
				child, err := set.Item(children.values[slot], slotArgs)
				if err != nil {
					return err
				}
				slotArgs[slot] = child
			}

			out, err := set.Render(args[0], slotArgs)
			if err != nil {
				return err
			}

			return tw.Raw(out).Component().Render(cmd.Context(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "", "artifact directory (default is the configured output directory)")
	flags.Var(values, "arg", "fill a slot with a value (repeatable)")
	flags.Var(attrs, "attr", "fill a slot with an attribute value (repeatable)")
	flags.Var(raws, "raw", "fill a slot with raw markup (repeatable)")
	flags.Var(sanitized, "sanitized", "fill a slot with markup cleaned of unsafe content (repeatable)")
	flags.Var(children, "child", "fill a slot with another rendered component, slot=id (repeatable)")
	flags.Var(&events, "event", "mark a slot as an event hook that renders empty (repeatable)")

	return cmd
}
