package apps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/tests/helpers/testutil"
)

func newTestResolver(t *testing.T, m *testutil.MockOS, opts ...ResolverOption) (*Resolver, *CatalogHolder) {
	t.Helper()
	catalogs := NewCatalogHolder(DefaultCatalog())
	sources := []Source{
		NewStartMenuSource(m, []string{"programs"}, catalogs),
		NewRegistrySource(m, catalogs),
		NewKnownSource(m, catalogs),
		NewPathSource(m),
	}
	opts = append([]ResolverOption{WithResolverLogger(testutil.NewTestLogger(t))}, opts...)
	return NewResolver(catalogs, sources, opts...), catalogs
}

func TestResolveKnownApplication(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("LookupExecutable", mock.Anything, "notepad.exe").Return(`C:\Windows\notepad.exe`, true)
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "记事本")
	require.NoError(t, err)

	assert.Equal(t, SourceKnownTable, app.Source)
	assert.Equal(t, 100, app.Score)
	assert.Equal(t, `C:\Windows\notepad.exe`, app.Path)
	assert.Equal(t, host.KindExecutable, app.Target.Kind)
	assert.Equal(t, "notepad.exe", app.Image)
}

func TestResolveSnapInKeepsBareName(t *testing.T) {
	m := testutil.EmptySearch(testutil.NewMockOS(t))

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "服务")
	require.NoError(t, err)

	assert.Equal(t, "services.msc", app.Path)
	assert.Equal(t, host.KindManagementConsole, app.Target.Kind)
	m.AssertNotCalled(t, "LookupExecutable", mock.Anything, "services.msc")
}

func TestResolveFuzzyEntryUsesStartMenu(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateShortcuts", mock.Anything, []string{"programs"}).Return([]host.Shortcut{
		{Path: `C:\ProgramData\Start Menu\Programs\微信\微信.lnk`, DisplayName: "微信"},
		{Path: `C:\ProgramData\Start Menu\Programs\企业微信.lnk`, DisplayName: "企业微信"},
	}, nil)
	m.On("ResolveShortcut", mock.Anything, `C:\ProgramData\Start Menu\Programs\微信\微信.lnk`).
		Return(`C:\Program Files\Tencent\WeChat\WeChat.exe`, nil)
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "微信客户端")
	require.NoError(t, err)

	assert.Equal(t, SourceStartMenu, app.Source)
	assert.Equal(t, "微信", app.Name)
	assert.Equal(t, `C:\Program Files\Tencent\WeChat\WeChat.exe`, app.Path)
	m.AssertNotCalled(t, "ResolveShortcut", mock.Anything, `C:\ProgramData\Start Menu\Programs\企业微信.lnk`)
}

func TestResolveUnreadableShortcutLaunchesShortcut(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return([]host.Shortcut{
		{Path: "/apps/gimp.desktop", DisplayName: "GIMP"},
	}, nil)
	m.On("ResolveShortcut", mock.Anything, "/apps/gimp.desktop").Return("", errors.New("broken"))
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "gimp")
	require.NoError(t, err)
	assert.Equal(t, "/apps/gimp.desktop", app.Path)
}

func TestResolveEqualScoresPreferStartMenu(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return([]host.Shortcut{
		{Path: "notepad.lnk", DisplayName: "Notepad", TargetPath: `C:\Windows\System32\notepad.exe`},
	}, nil)
	m.On("LookupExecutable", mock.Anything, "notepad.exe").Return(`C:\Windows\notepad.exe`, true)
	m.On("LookupExecutable", mock.Anything, "notepad").Return(`C:\Windows\notepad.exe`, true)
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)

	candidates, err := r.Candidates(context.Background(), "notepad")
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, SourceStartMenu, candidates[0].Source)
	assert.Equal(t, SourceKnownTable, candidates[1].Source)
	assert.Equal(t, SourcePath, candidates[2].Source)

	app, err := r.Resolve(context.Background(), "notepad")
	require.NoError(t, err)
	assert.Equal(t, SourceStartMenu, app.Source)
	assert.Equal(t, `C:\Windows\System32\notepad.exe`, app.Path)
}

func TestResolveSourceThresholds(t *testing.T) {
	// "网易云音乐" against "网抑云音乐" scores 64: enough for the Start Menu, not the registry.
	t.Run("start menu accepts 64", func(t *testing.T) {
		m := testutil.NewMockOS(t)
		m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return([]host.Shortcut{
			{Path: "cloudmusic.lnk", DisplayName: "网抑云音乐", TargetPath: `D:\cloudmusic.exe`},
		}, nil)
		testutil.EmptySearch(m)

		r, _ := newTestResolver(t, m)
		app, err := r.Resolve(context.Background(), "网易云音乐")
		require.NoError(t, err)
		assert.Equal(t, 64, app.Score)
	})

	t.Run("registry rejects 64", func(t *testing.T) {
		m := testutil.NewMockOS(t)
		m.On("EnumerateUninstallEntries", mock.Anything, host.Hive64).Return([]host.UninstallEntry{
			{Key: "cloudmusic", DisplayName: "网抑云音乐", InstallLocation: `D:\CloudMusic`},
		}, nil)
		testutil.EmptySearch(m)

		r, _ := newTestResolver(t, m)
		_, err := r.Resolve(context.Background(), "网易云音乐")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("registry accepts 72", func(t *testing.T) {
		m := testutil.NewMockOS(t)
		m.On("EnumerateUninstallEntries", mock.Anything, host.Hive32).Return([]host.UninstallEntry{
			{Key: "foo", DisplayName: "Foo Editor", DisplayIcon: `"C:\Program Files (x86)\Foo\foo.exe",0`},
		}, nil)
		testutil.EmptySearch(m)

		r, _ := newTestResolver(t, m)
		app, err := r.Resolve(context.Background(), "foo edit")
		require.NoError(t, err)
		assert.Equal(t, SourceRegistry, app.Source)
		assert.Equal(t, 72, app.Score)
		assert.Equal(t, `C:\Program Files (x86)\Foo\foo.exe`, app.Path)
		assert.Equal(t, "foo.exe", app.Image)
	})
}

func TestResolveRegistryEntryWithoutLocation(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateUninstallEntries", mock.Anything, host.Hive64).Return([]host.UninstallEntry{
		{Key: "bar", DisplayName: "Bar Studio"},
	}, nil)
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "Bar Studio")
	require.NoError(t, err)
	assert.Equal(t, SourceRegistry, app.Source)
	assert.Equal(t, 100, app.Score)
	assert.Empty(t, app.Path)

	_, err = NewLauncher(m, r, NewCatalogHolder(DefaultCatalog()), nil, nil).LaunchResolved(context.Background(), app)
	assert.ErrorIs(t, err, ErrNotResolved)
	m.AssertNotCalled(t, "SpawnProcess", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveNotFound(t *testing.T) {
	m := testutil.EmptySearch(testutil.NewMockOS(t))
	r, _ := newTestResolver(t, m)

	_, err := r.Resolve(context.Background(), "不存在的程序xyz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "  。 ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveSurvivesFailingSource(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	m.On("EnumerateUninstallEntries", mock.Anything, mock.Anything).Return(nil, host.ErrUnsupported)
	testutil.EmptySearch(m)

	r, _ := newTestResolver(t, m)
	app, err := r.Resolve(context.Background(), "系统设置")
	require.NoError(t, err)
	assert.Equal(t, "ms-settings:", app.Path)
	assert.Equal(t, host.KindURIScheme, app.Target.Kind)
}

func TestResolveCache(t *testing.T) {
	m := testutil.NewMockOS(t)
	m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return([]host.Shortcut{
		{Path: "gimp.desktop", DisplayName: "GIMP", TargetPath: "/usr/bin/gimp"},
	}, nil)
	testutil.EmptySearch(m)

	r, catalogs := newTestResolver(t, m, WithCache(8, time.Minute))
	ctx := context.Background()

	first, err := r.Resolve(ctx, "GIMP")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, "gimp")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	m.AssertNumberOfCalls(t, "EnumerateShortcuts", 1)

	catalogs.Store(DefaultCatalog())
	_, err = r.Resolve(ctx, "gimp")
	require.NoError(t, err)
	m.AssertNumberOfCalls(t, "EnumerateShortcuts", 2)
}

func TestResolveCancelledContext(t *testing.T) {
	m := testutil.EmptySearch(testutil.NewMockOS(t))
	r, _ := newTestResolver(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "gimp")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIconExecutable(t *testing.T) {
	assert.Equal(t, `C:\a\b.exe`, iconExecutable(`"C:\a\b.exe",0`))
	assert.Equal(t, `C:\a\b.exe`, iconExecutable(`C:\a\b.exe`))
	assert.Equal(t, "", iconExecutable(`C:\a\b.ico`))
	assert.Equal(t, "", iconExecutable(""))
}
