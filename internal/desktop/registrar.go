package desktop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/pkg/shell"
)

// registrarTimeout bounds each register or unregister command.
const registrarTimeout = 10 * time.Second

// CommandRegistrar binds the global shortcut by running configured commands.
// The register template receives {combo}; the unregister template receives
// {combo} for the shortcut being released.
type CommandRegistrar struct {
	Runner        shell.Runner
	RegisterCmd   string
	UnregisterCmd string

	mu     sync.Mutex
	active string
}

// NewCommandRegistrar creates a registrar. active is the shortcut already
// bound by a previous run, if any.
func NewCommandRegistrar(runner shell.Runner, registerCmd, unregisterCmd, active string) *CommandRegistrar {
	return &CommandRegistrar{
		Runner:        runner,
		RegisterCmd:   registerCmd,
		UnregisterCmd: unregisterCmd,
		active:        active,
	}
}

// Register binds combo. The previous binding is released only after the new
// one succeeds, so a failure leaves it in place.
func (r *CommandRegistrar) Register(combo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.RegisterCmd == "" {
		return fmt.Errorf("no hotkey.register_command configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), registrarTimeout)
	defer cancel()

	line := shell.Expand(r.RegisterCmd, map[string]string{"combo": combo})
	if err := runLine(ctx, r.Runner, line); err != nil {
		return err
	}

	if r.active != "" && r.active != combo {
		if err := r.release(ctx, r.active); err != nil {
			log.WarningLog.Printf("failed to release previous hotkey %s: %v", r.active, err)
		}
	}
	r.active = combo
	return nil
}

// Unregister releases the active shortcut. It succeeds when none is bound.
func (r *CommandRegistrar) Unregister() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), registrarTimeout)
	defer cancel()

	if err := r.release(ctx, r.active); err != nil {
		return err
	}
	r.active = ""
	return nil
}

func (r *CommandRegistrar) release(ctx context.Context, combo string) error {
	if r.UnregisterCmd == "" {
		return nil
	}
	return runLine(ctx, r.Runner, shell.Expand(r.UnregisterCmd, map[string]string{"combo": combo}))
}
