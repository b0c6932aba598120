package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&SettingsCmd{})
}

// SettingsCmd shows or changes settings.yaml. Without flags it prints the
// current values.
type SettingsCmd struct {
	itemsPerPage    optInt
	notifications   optSwitch
	autoRefresh     optSwitch
	refreshInterval optInt
}

func (c *SettingsCmd) Name() string      { return "settings" }
func (c *SettingsCmd) Aliases() []string { return nil }
func (c *SettingsCmd) Synopsis() string  { return "Show or change settings" }
func (c *SettingsCmd) Usage() string {
	return "vatask settings [--items-per-page <n>] [--notifications on|off] [--auto-refresh on|off] [--refresh-interval <seconds>]"
}
func (c *SettingsCmd) NeedsAuth() bool { return false }

func (c *SettingsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.itemsPerPage, c.refreshInterval = optInt{}, optInt{}
	c.notifications, c.autoRefresh = optSwitch{}, optSwitch{}
	fs.Var(&c.itemsPerPage, "items-per-page", "")
	fs.Var(&c.notifications, "notifications", "")
	fs.Var(&c.autoRefresh, "auto-refresh", "")
	fs.Var(&c.refreshInterval, "refresh-interval", "")
}

func (c *SettingsCmd) changed() bool {
	return c.itemsPerPage.set || c.notifications.set || c.autoRefresh.set || c.refreshInterval.set
}

func (c *SettingsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	settings, err := config.LoadSettings(cfg.SettingsPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !c.changed() {
		printSettings(out, settings)
		return exitcode.Success
	}

	if c.itemsPerPage.set {
		settings.ItemsPerPage = c.itemsPerPage.val
	}
	if c.notifications.set {
		on := c.notifications.val
		settings.EnableNotifications = &on
	}
	if c.autoRefresh.set {
		settings.AutoRefresh = c.autoRefresh.val
	}
	if c.refreshInterval.set {
		settings.RefreshInterval = c.refreshInterval.val
	}

	if err := settings.Validate(); err != nil {
		return reportInvalid(errOut, err)
	}
	if err := settings.Save(cfg.SettingsPath()); err != nil {
		fmt.Fprintf(errOut, "error: failed to save settings: %v\n", err)
		return exitcode.UserError
	}
	cfg.Settings = settings

	if !cfg.Quiet {
		fmt.Fprintln(out, view.MsgSettingsSaved)
	}
	return exitcode.Success
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printSettings(w io.Writer, s config.Settings) {
	fmt.Fprintf(w, "items_per_page:       %d\n", s.PageSize())
	fmt.Fprintf(w, "enable_notifications: %s\n", onOff(s.NotificationsEnabled()))
	fmt.Fprintf(w, "auto_refresh:         %s\n", onOff(s.AutoRefresh))
	fmt.Fprintf(w, "refresh_interval:     %s\n", s.Interval())
}
