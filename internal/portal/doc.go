// Package portal wires the request scheduler, renderer registry, poll
// controllers and localization overlay into a Session, the Go counterpart of
// one load of the device's configuration page.
//
// A typical page load:
//
//	l := loop.New()
//	go l.Run(ctx)
//	p := page.NewWiFiSetup(nav)
//	s, err := portal.NewSession(ctx, client, l, p, portal.Options{})
//	l.Post(s.Bootstrap)
//	l.Post(s.StartScan)
//	l.Post(s.WatchState)
package portal
