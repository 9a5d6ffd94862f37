package sqlc

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager records per-server game counters. A nil manager or one
// built without queries is a no-op so the server runs without a database.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) Enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.IncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.IncrementGamesFinishedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementReplayCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.IncrementReplayCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.GetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetServerAnalytics(ctx context.Context, serverIpNet pqtype.Inet) (GameServerAnalytic, error) {
	if !a.Enabled() {
		return GameServerAnalytic{ServerIp: serverIpNet}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.GetServerAnalytics(ctx, serverIpNet)
}

// Record runs one counter update and logs a failure instead of returning it.
// Analytics never interrupt gameplay.
func (a *AnalyticsManager) Record(ctx context.Context, serverIpNet pqtype.Inet, inc func(context.Context, pqtype.Inet) error) {
	if !a.Enabled() {
		return
	}
	if err := inc(ctx, serverIpNet); err != nil {
		log.Error().Err(err).Str("server_ip", serverIpNet.IPNet.String()).Msg("failed to record analytics")
	}
}

// InetFromAddr converts a listener or connection address into the column type
// keyed by the analytics table. Unparseable addresses yield an invalid Inet.
func InetFromAddr(addr net.Addr) pqtype.Inet {
	if addr == nil {
		return pqtype.Inet{}
	}

	var ip net.IP
	switch a := addr.(type) {
	case *net.TCPAddr:
		ip = a.IP
	case *net.UDPAddr:
		ip = a.IP
	default:
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			host = addr.String()
		}
		ip = net.ParseIP(host)
	}
	if ip == nil {
		return pqtype.Inet{}
	}

	bits := 128
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		bits = 32
	}
	return pqtype.Inet{
		IPNet: net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)},
		Valid: true,
	}
}
