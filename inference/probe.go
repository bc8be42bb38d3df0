package inference

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"golang.org/x/time/rate"

	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

const (
	icmpProbeTimeout    = 2 * time.Second
	healthPollInterval  = 30 * time.Second
	healthProbesPerSec  = 1 // shared budget between the poll loop and /service-health calls
	healthProbeBurst    = 2
	healthProbeDeadline = 5 * time.Second
)

// QuickICMPProbe checks host reachability with a single unprivileged ping.
// Loopback and unresolvable hosts short-circuit: loopback is always
// considered reachable, resolution failures unreachable.
func QuickICMPProbe(host string, timeout time.Duration) bool {
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	if host == "localhost" {
		return true
	}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false
	}
	pinger.SetPrivileged(false)
	pinger.Count = 1
	pinger.Timeout = timeout
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// Prober periodically checks the inference service and caches the latest
// ServiceHealth for the status API. A shared rate limiter keeps manual
// /service-health requests and the background loop from flooding the host.
type Prober struct {
	client  Client
	host    string
	limiter *rate.Limiter

	mu   sync.RWMutex
	last types.ServiceHealth
}

func NewProber(client Client, baseURL string) *Prober {
	host := "localhost"
	if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return &Prober{
		client:  client,
		host:    host,
		limiter: rate.NewLimiter(rate.Limit(healthProbesPerSec), healthProbeBurst),
		last:    types.ServiceHealth{Reachable: false},
	}
}

// Check probes the service once and updates the cached result. Rate-limited;
// when the budget is exhausted the cached result is returned instead.
func (p *Prober) Check(ctx context.Context) types.ServiceHealth {
	if !p.limiter.Allow() {
		return p.Last()
	}

	result := types.ServiceHealth{
		Reachable: QuickICMPProbe(p.host, icmpProbeTimeout),
	}

	hctx, cancel := context.WithTimeout(ctx, healthProbeDeadline)
	defer cancel()
	health, err := p.client.Health(hctx)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Reachable = true
		result.Status = health.Status
		result.ModelsLoaded = health.ModelsLoaded
	}

	p.mu.Lock()
	p.last = result
	p.mu.Unlock()
	return result
}

// Last returns the most recent probe result without touching the network.
func (p *Prober) Last() types.ServiceHealth {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Watch polls the service until ctx is cancelled.
func (p *Prober) Watch(ctx context.Context) {
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := p.Check(ctx)
			if !health.Reachable || health.Error != "" {
				tool.DefaultLogger.Warnf("Inference service health degraded: reachable=%t err=%s", health.Reachable, health.Error)
			}
		}
	}
}
