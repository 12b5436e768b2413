package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/spinroom/roulette-sim-go/bindings"
	"github.com/spinroom/roulette-sim-go/internal/webapi"
)

//go:embed all:frontend/dist
var assets embed.FS

const (
	appConfigDirName = "roulette-sim"
	historyDBName    = "spin_history.db"
)

var (
	appCtx   context.Context
	appCtxMu sync.RWMutex
)

func main() {
	log.Printf("Starting Roulette Sim (Go %s)...", runtime.Version())

	dbPath := defaultHistoryDBPath()
	startBalance := envFloat("ROULETTE_START_BALANCE", 0)

	tableMod, err := bindings.NewTableModule(dbPath, startBalance)
	if err != nil {
		log.Fatalf("table module init failed: %v", err)
	}
	autoplayMod := bindings.NewAutoplayModule(tableMod)
	historyMod := bindings.NewHistoryModule(tableMod.Store())

	apiPort := envInt("ROULETTE_API_PORT", webapi.DefaultPort)
	apiToken := os.Getenv("ROULETTE_API_TOKEN") // optional; when empty, no auth
	api := webapi.New(tableMod.Table(), tableMod.Store(), apiPort, apiToken)

	startup := func(ctx context.Context) {
		tableMod.Startup(ctx)
		autoplayMod.Startup(ctx)
		historyMod.Startup(ctx)
		setAppContext(ctx)

		if err := api.Start(); err != nil {
			log.Printf("companion API failed to start: %v", err)
		} else {
			log.Printf("Companion API ready at http://%s (token enabled: %v)", api.Addr(), apiToken != "")
		}
	}

	beforeClose := func(ctx context.Context) (prevent bool) {
		if err := api.Shutdown(ctx); err != nil {
			log.Printf("companion API shutdown error: %v", err)
		}
		tableMod.Shutdown(ctx)
		setAppContext(nil)
		log.Println("Application is closing")
		return false
	}

	if err := wails.Run(&options.App{
		Title:            "Roulette Sim",
		Width:            1280,
		Height:           800,
		MinWidth:         1024,
		MinHeight:        720,
		WindowStartState: options.Normal,
		BackgroundColour: &options.RGBA{R: 12, G: 58, B: 31, A: 255},

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:     startup,
		OnBeforeClose: beforeClose,
		OnShutdown: func(ctx context.Context) {
			log.Println("Application shutdown complete")
		},

		Menu: buildAppMenu(),

		Bind: []interface{}{tableMod, autoplayMod, historyMod},

		LogLevel:           logger.INFO,
		LogLevelProduction: logger.ERROR,

		EnableDefaultContextMenu: false,

		ErrorFormatter: func(err error) any {
			if err == nil {
				return nil
			}
			return err.Error()
		},

		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: "7f2b9c41-5e8d-4a36-b1c0-roulette-sim",
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				log.Printf("Second instance launch prevented. Args: %v", data.Args)
			},
		},

		Windows: &windows.Options{
			Theme: windows.SystemDefault,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "Roulette Sim",
				Message: "A local European roulette simulator.\n\nBuilt with Wails.",
			},
		},
		Linux: &linux.Options{
			ProgramName:      "roulette-sim",
			WebviewGpuPolicy: linux.WebviewGpuPolicyAlways,
		},
	}); err != nil {
		log.Printf("Error running Wails app: %v", err)
		panic(err)
	}

	log.Println("Application exited normally")
}

func defaultHistoryDBPath() string {
	base := appDataDir()
	if err := os.MkdirAll(base, 0o755); err != nil {
		log.Printf("appdata mkdir failed: %v; using working directory", err)
		return filepath.Join(".", historyDBName)
	}
	return filepath.Join(base, historyDBName)
}

// appDataDir returns an OS-appropriate writable directory.
func appDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, appConfigDirName)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+appConfigDirName)
	}
	return "."
}

func envInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		var v int
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
			return v
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if s := os.Getenv(k); s != "" {
		var v float64
		if _, err := fmt.Sscanf(s, "%f", &v); err == nil {
			return v
		}
	}
	return def
}

func setAppContext(ctx context.Context) {
	appCtxMu.Lock()
	appCtx = ctx
	appCtxMu.Unlock()
}

func withAppContext(fn func(ctx context.Context)) {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()
	if ctx == nil {
		return
	}
	fn(ctx)
}

func buildAppMenu() *menu.Menu {
	rootMenu := menu.NewMenu()

	if runtime.GOOS == "darwin" {
		if appMenu := menu.AppMenu(); appMenu != nil {
			rootMenu.Append(appMenu)
		}
	}

	fileMenu := menu.NewMenu()
	fileMenu.AddText("Open Data Directory", keys.CmdOrCtrl("o"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.BrowserOpenURL(ctx, "file://"+appDataDir())
		})
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.Quit(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("File", fileMenu))

	viewMenu := menu.NewMenu()
	viewMenu.AddText("Reload Frontend", keys.CmdOrCtrl("r"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.WindowReloadApp(ctx)
		})
	})
	viewMenu.AddText("Toggle Fullscreen", keys.Combo("f", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			if wruntime.WindowIsFullscreen(ctx) {
				wruntime.WindowUnfullscreen(ctx)
			} else {
				wruntime.WindowFullscreen(ctx)
			}
		})
	})
	rootMenu.Append(menu.SubMenu("View", viewMenu))

	return rootMenu
}
