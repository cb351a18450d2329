package testutil

import (
	"bytes"
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

const tigerBeetleStartTimeout = 10 * time.Second

// TigerBeetleCluster is a single-replica development cluster owned by one test.
// It is stopped by the test's cleanup.
type TigerBeetleCluster struct {
	ClusterID uint32
	Addresses []string
}

// StartTigerBeetleSingleReplica formats a data file in a temp dir and starts one replica on a
// free loopback port. The test is skipped when neither TB_BIN nor a tigerbeetle binary on PATH
// is available.
func StartTigerBeetleSingleReplica(t *testing.T) *TigerBeetleCluster {
	t.Helper()
	binary := tigerBeetleBinary(t)
	dataFile := filepath.Join(t.TempDir(), "0_0.tigerbeetle")
	cluster := &TigerBeetleCluster{Addresses: []string{FreeAddress(t)}}

	format := exec.Command(binary, "format",
		"--cluster="+strconv.FormatUint(uint64(cluster.ClusterID), 10),
		"--replica=0", "--replica-count=1", "--development", dataFile)
	if output, err := format.CombinedOutput(); err != nil {
		t.Fatalf("tigerbeetle format: %v\n%s", err, output)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var output bytes.Buffer
	replica := exec.CommandContext(ctx, binary, "start", "--addresses="+cluster.Addresses[0], "--development", dataFile)
	replica.Stdout = &output
	replica.Stderr = &output
	if err := replica.Start(); err != nil {
		cancel()
		t.Fatalf("tigerbeetle start: %v\n%s", err, output.String())
	}
	t.Cleanup(func() {
		cancel()
		_ = replica.Wait()
	})

	WaitFor(t, tigerBeetleStartTimeout, func() error {
		conn, err := net.DialTimeout("tcp", cluster.Addresses[0], 200*time.Millisecond)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	return cluster
}

func tigerBeetleBinary(t *testing.T) string {
	t.Helper()
	if path := os.Getenv("TB_BIN"); path != "" {
		return path
	}
	path, err := exec.LookPath("tigerbeetle")
	if err != nil {
		t.Skip("TB_BIN not set and tigerbeetle not found on PATH")
	}
	return path
}
