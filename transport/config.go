package transport

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	proto "github.com/ystepanoff/blecte/protocol"
)

// Config holds the radio settings that are not fixed by the advertising
// channel PHY.
type Config struct {
	Logger *slog.Logger
	// TxPower in dBm, one of the nRF52833 TXPOWER steps.
	TxPower int8
	CTE     proto.CTETiming
	// MaxReceiveAttempts bounds how many frames Receive inspects before it
	// gives up with ErrAttemptsExhausted. 0 keeps listening forever.
	MaxReceiveAttempts int
}

func DefaultConfig() Config {
	return Config{
		TxPower: 0,
		CTE:     proto.DefaultCTETiming(),
	}
}

var txPowerSteps = []int8{8, 7, 6, 5, 4, 3, 2, 0, -4, -8, -12, -16, -20, -40}

func (c Config) Validate() error {
	if !slices.Contains(txPowerSteps, c.TxPower) {
		return errors.Errorf("unsupported TX power %d dBm", c.TxPower)
	}
	if c.MaxReceiveAttempts < 0 {
		return errors.Errorf("negative receive attempt limit %d", c.MaxReceiveAttempts)
	}
	return errors.Wrap(c.CTE.Validate(), "CTE timing")
}
