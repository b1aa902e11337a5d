// Package host is the boundary between the assistant core and the operating system.
//
// The core never touches the registry, the Start Menu, processes or the desktop
// notification service directly. It asks through the OS interface defined here:
//
//   - EnumerateShortcuts / ResolveShortcut: Start Menu (or .desktop) program trees
//   - EnumerateUninstallEntries: 64-bit and 32-bit uninstall registry trees
//   - LookupExecutable: PATH and App Paths style lookups
//   - SpawnProcess / ForceKillByImageName: process start and stop
//   - ShowNotification: desktop toast rendering
//
// Local is the production implementation for the running platform. Tests use
// testutil.MockOS instead.
package host
