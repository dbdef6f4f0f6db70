package browser

import (
	"slices"
)

type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebKit   Engine = "webkit"
)

// LaunchProfile - неизменяемый набор флагов запуска для одного типа браузера.
type LaunchProfile struct {
	Engine            Engine
	Channel           string
	Args              []string
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	IgnoreHTTPSErrors bool
	// Eager - навигация ждет DOMContentLoaded, а не полной загрузки.
	Eager bool
}

// Options строится один раз при старте процесса и дальше только читается,
// поэтому его можно делить между воркерами без блокировок.
type Options struct {
	profiles map[Kind]LaunchProfile
}

var chromiumArgs = []string{
	"--incognito",
	"--headless",
	"--window-size=1920,1080",
	"--disable-gpu",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-web-security",
	"--allow-running-insecure-content",
	"--ignore-certificate-errors",
}

var firefoxArgs = []string{
	"-headless",
	"-disable-gpu",
	"-no-sandbox",
	"-disable-dev-shm-usage",
}

func DefaultOptions(headless bool) Options {
	return Options{profiles: map[Kind]LaunchProfile{
		KindChrome: {
			Engine:            EngineChromium,
			Channel:           "chrome",
			Args:              launchArgs(chromiumArgs, "--headless", headless),
			Headless:          headless,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			IgnoreHTTPSErrors: true,
		},
		KindEdge: {
			Engine:            EngineChromium,
			Channel:           "msedge",
			Args:              launchArgs(chromiumArgs, "--headless", headless),
			Headless:          headless,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			IgnoreHTTPSErrors: true,
			Eager:             true,
		},
		KindFirefox: {
			Engine:         EngineFirefox,
			Args:           launchArgs(firefoxArgs, "-headless", headless),
			Headless:       headless,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
		KindSafari: {
			Engine:         EngineWebKit,
			Headless:       headless,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
	}}
}

// For возвращает копию профиля; вызывающий код не может изменить таблицу.
func (o Options) For(kind Kind) (LaunchProfile, error) {
	p, ok := o.profiles[kind]
	if !ok {
		return LaunchProfile{}, &UnsupportedKindError{Value: string(kind)}
	}
	p.Args = slices.Clone(p.Args)
	return p, nil
}

func launchArgs(base []string, headlessFlag string, headless bool) []string {
	if headless {
		return slices.Clone(base)
	}
	return slices.DeleteFunc(slices.Clone(base), func(a string) bool {
		return a == headlessFlag
	})
}
