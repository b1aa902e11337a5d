package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want host.TargetKind
	}{
		{"notepad.exe", host.KindExecutable},
		{`C:\Windows\System32\notepad.exe`, host.KindExecutable},
		{"services.msc", host.KindManagementConsole},
		{"DEVMGMT.MSC", host.KindManagementConsole},
		{"mmsys.cpl", host.KindControlPanelApplet},
		{"ms-settings:", host.KindURIScheme},
		{"ms-settings:display", host.KindURIScheme},
		{"https://example.com", host.KindURIScheme},
		{"/usr/bin/gedit", host.KindExecutable},
		{`D:\Games\game.lnk`, host.KindExecutable},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Classify(tt.path)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.path, got.Path)
		})
	}
}
