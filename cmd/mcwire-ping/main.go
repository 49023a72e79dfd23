// Command mcwire-ping connects to one or more Minecraft servers, performs
// the Handshake -> Status Request -> Status Response -> Ping/Pong sequence
// against each, and reports the measured round-trip latency. It exercises
// the packet, conn, and version packages end to end the way a production
// status-ping tool would.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymodder/mcwire/conn"
	"github.com/dmitrymodder/mcwire/mclog"
	"github.com/dmitrymodder/mcwire/packet"
	"github.com/dmitrymodder/mcwire/packet/handshake"
	"github.com/dmitrymodder/mcwire/packet/status"
	"github.com/dmitrymodder/mcwire/version"
)

// Config lists the servers to ping, loaded the same way the teacher's
// main.go loads server.yaml.
type Config struct {
	Targets []Target `yaml:"targets"`
}

// Target is one server to status-ping.
type Target struct {
	Name            string `yaml:"name"`
	Address         string `yaml:"address"`
	ProtocolVersion int    `yaml:"protocol_version"`
}

func main() {
	configPath := flag.String("config", "targets.yaml", "path to the YAML target list")
	dev := flag.Bool("dev", false, "use a development (console) logger instead of production JSON")
	flag.Parse()

	if *dev {
		if err := mclog.SetDevelopment(); err != nil {
			fmt.Fprintln(os.Stderr, "mcwire-ping: could not set development logger:", err)
			os.Exit(1)
		}
	}
	log := mclog.L()

	f, err := os.Open(*configPath)
	if err != nil {
		log.Fatal("could not open target config", zap.String("path", *configPath), zap.Error(err))
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatal("invalid target config", zap.Error(err))
	}

	registry := packet.NewDefaultRegistry()
	for _, t := range cfg.Targets {
		result, err := pingTarget(context.Background(), registry, t)
		if err != nil {
			log.Error("ping failed", zap.String("target", t.Name), zap.Error(err))
			continue
		}
		log.Info("ping succeeded",
			zap.String("target", t.Name),
			zap.String("version", result.VersionName),
			zap.Int("players_online", result.PlayersOnline),
			zap.Int("players_max", result.PlayersMax),
			zap.Duration("latency", result.Latency),
		)
	}
}

// Result is what a successful status ping reports.
type Result struct {
	VersionName   string
	PlayersOnline int
	PlayersMax    int
	Latency       time.Duration
}

func pingTarget(ctx context.Context, registry *packet.Registry, t Target) (Result, error) {
	v, err := version.New(t.ProtocolVersion)
	if err != nil {
		return Result{}, err
	}

	tcpConn, err := net.DialTimeout("tcp", t.Address, 5*time.Second)
	if err != nil {
		return Result{}, err
	}
	defer tcpConn.Close()

	c := conn.New(tcpConn)

	host, port, err := splitHostPort(t.Address)
	if err != nil {
		return Result{}, err
	}

	h := handshake.Handshake{
		ProtocolVersion: int32(t.ProtocolVersion),
		ServerAddress:   host,
		ServerPort:      port,
		NextState:       handshake.NextStatus,
	}
	if err := sendPacket(ctx, registry, c, packet.Handshaking, packet.Serverbound, 0x00, v, h); err != nil {
		return Result{}, err
	}
	if err := sendPacket(ctx, registry, c, packet.Status, packet.Serverbound, 0x00, v, status.Request{}); err != nil {
		return Result{}, err
	}

	raw, err := c.Read.ReadPacket(ctx)
	if err != nil {
		return Result{}, err
	}
	decoded, err := registry.Decode(packet.Status, packet.Clientbound, raw.ID, v, raw.Payload)
	if err != nil {
		return Result{}, err
	}
	resp, ok := decoded.(status.Response)
	if !ok {
		return Result{}, fmt.Errorf("unexpected status response type %T", decoded)
	}

	pingPayload := rand.Int64()
	start := time.Now()
	if err := sendPacket(ctx, registry, c, packet.Status, packet.Serverbound, 0x01, v, status.Ping{Payload: pingPayload}); err != nil {
		return Result{}, err
	}
	raw, err = c.Read.ReadPacket(ctx)
	if err != nil {
		return Result{}, err
	}
	latency := time.Since(start)
	decoded, err = registry.Decode(packet.Status, packet.Clientbound, raw.ID, v, raw.Payload)
	if err != nil {
		return Result{}, err
	}
	pong, ok := decoded.(status.Pong)
	if !ok {
		return Result{}, fmt.Errorf("unexpected pong response type %T", decoded)
	}
	if pong.Payload != pingPayload {
		return Result{}, fmt.Errorf("pong payload mismatch: sent %d, got %d", pingPayload, pong.Payload)
	}

	return Result{
		VersionName:   resp.Version.Name,
		PlayersOnline: resp.Players.Online,
		PlayersMax:    resp.Players.Max,
		Latency:       latency,
	}, nil
}

func sendPacket(ctx context.Context, registry *packet.Registry, c *conn.Connection, state packet.State, dir packet.Direction, id int32, v version.Version, pkt any) error {
	payload, err := registry.Encode(state, dir, id, v, pkt)
	if err != nil {
		return err
	}
	return c.Write.WritePacket(ctx, packet.Raw{ID: id, Payload: payload})
}

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, err
	}
	return host, uint16(port), nil
}
