// Package discovery finds EWC devices on the local network with mDNS.
//
// EWC devices run a plain web server advertised as "_http._tcp" under the
// hostname "ewc-<chipid>.local" unless the user configured another one.
// By default only such hostnames are reported; set Scanner.AnyHost to list
// every HTTP service.
//
// # Usage Example
//
//	devices, err := discovery.NewScanner().ScanForDevices(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(d.Hostname, d.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
