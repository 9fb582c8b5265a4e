package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
	"github.com/KirkDiggler/rpg-skirmish/internal/errors"
	"github.com/KirkDiggler/rpg-skirmish/internal/policy"
)

// Tapper receives parry taps
type Tapper interface {
	RegisterTap()
}

// ConsoleConfig holds the dependencies for a console source
type ConsoleConfig struct {
	In     io.Reader
	Out    io.Writer
	Tapper Tapper
}

// Validate ensures all required dependencies are provided
func (c *ConsoleConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.In == nil {
		vb.RequiredField("In")
	}
	if c.Out == nil {
		vb.RequiredField("Out")
	}
	if c.Tapper == nil {
		vb.RequiredField("Tapper")
	}

	return vb.Build()
}

type pendingRequest struct {
	req        *policy.ActionRequest
	onDecision func(combat.Intent)
}

// Console reads legacy key commands line by line. A parry tap is accepted at
// any time; action commands only while a request is pending.
type Console struct {
	in     io.Reader
	out    io.Writer
	tapper Tapper

	mu      sync.Mutex
	pending *pendingRequest

	outMu sync.Mutex
}

var _ policy.DecisionSource = (*Console)(nil)

// NewConsole creates a console source
func NewConsole(cfg *ConsoleConfig) (*Console, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Console{
		in:     cfg.In,
		out:    cfg.Out,
		tapper: cfg.Tapper,
	}, nil
}

// RequestAction prints the prompt and parks the callback until a command arrives
func (c *Console) RequestAction(_ context.Context, req *policy.ActionRequest, onDecision func(combat.Intent)) {
	c.mu.Lock()
	c.pending = &pendingRequest{req: req, onDecision: onDecision}
	c.mu.Unlock()

	c.printf("%s's turn. Targets:", req.Actor.Name())
	for i, t := range req.Candidates {
		c.printf(" [%d] %s %d/%d", i+1, t.Name(), t.HP(), t.MaxHP())
	}
	c.printf("\n> a [n] attack | d defend | w wait | s [n] shield | p parry\n")
}

// CancelRequest drops the pending request
func (c *Console) CancelRequest() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Run consumes input until EOF or ctx ends
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Handle(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	return nil
}

// Handle processes one input line
func (c *Console) Handle(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		c.printf("? %s\n", errors.GetMessage(err))
		return
	}

	if cmd.Parry {
		c.tapper.RegisterTap()
		return
	}

	c.mu.Lock()
	p := c.pending
	c.pending = nil
	c.mu.Unlock()

	if p == nil {
		slog.Debug("Ignoring command with no pending request", "line", line)
		c.printf("not your turn\n")
		return
	}

	p.onDecision(cmd.Intent(p.req.Actor, p.req.Candidates))
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}
