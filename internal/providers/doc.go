// Package providers implements the services voice commands are routed to.
//
// Each provider exposes a service definition (name, methods, parameters) and
// executes methods on it. Failures come back as error responses rather than
// Go errors so a batch of commands always yields one response per command.
//
// Available Providers:
//   - SystemManager: open, close and resolve applications by spoken name
//   - ReminderManager: reminders, countdowns and free-form reminder queries
//   - NotificationCenter: desktop toasts and their delivery history
//
// Example Usage:
//
//	reg := service.NewRegistry(logger, metrics)
//	err := providers.RegisterAll(reg, providers.Deps{
//		Launcher:   launcher,
//		Scheduler:  scheduler,
//		Dispatcher: dispatcher,
//	}, logger)
//	resp := reg.Execute(ctx, types.Command{
//		Name:       "SystemManager",
//		Method:     "OpenApplication",
//		Parameters: map[string]any{"app_name": "记事本"},
//	})
package providers
