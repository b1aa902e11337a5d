package providers

import (
	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/providers/notifications"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/providers/reminders"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/providers/system"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/service"
)

// Deps are the components the providers wrap
type Deps struct {
	Launcher   *apps.Launcher
	Scheduler  *reminder.Scheduler
	Dispatcher *notify.Dispatcher
}

// RegisterAll registers every provider whose dependency is present
func RegisterAll(reg *service.Registry, deps Deps, logger *logging.Logger) error {
	var list []service.Provider
	if deps.Launcher != nil {
		list = append(list, system.NewProvider(deps.Launcher, logger))
	}
	if deps.Scheduler != nil {
		var confirm reminder.Enqueuer
		if deps.Dispatcher != nil {
			confirm = deps.Dispatcher
		}
		list = append(list, reminders.NewProvider(deps.Scheduler, confirm, logger))
	}
	if deps.Dispatcher != nil {
		list = append(list, notifications.NewProvider(deps.Dispatcher))
	}

	for _, p := range list {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}
