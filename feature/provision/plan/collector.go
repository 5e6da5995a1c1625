package plan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConfirmPhrase is the literal text the operator must type before any
// mutation happens.
const ConfirmPhrase = "SEED"

// ErrAborted means the operator declined the plan. No mutation has occurred
// at that point, so callers treat it as a clean no-op exit.
var ErrAborted = errors.New("seeding aborted by operator")

// Collector gathers an execution plan interactively.
type Collector struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewCollector creates a collector reading answers from r and writing
// prompts to w.
func NewCollector(r io.Reader, w io.Writer) *Collector {
	return &Collector{in: bufio.NewScanner(r), out: w}
}

// Collect runs the full prompt sequence and returns the plan, or ErrAborted
// if the operator declines at any gate.
func (c *Collector) Collect(defaultPassword string) (*Plan, error) {
	fmt.Fprintln(c.out, "This tool reconciles the identity store and the domain database.")

	proceed, err := c.askBool("Proceed with planning a seed run?", false)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return nil, ErrAborted
	}

	p := &Plan{RoleCounts: make(map[string]int)}

	if p.Wipe, err = c.askBool("Wipe existing domain data first?", false); err != nil {
		return nil, err
	}
	if p.Wipe {
		if p.PreserveAdmins, err = c.askBool("Preserve admin and super_admin accounts?", true); err != nil {
			return nil, err
		}
		if p.CleanupIdentity, err = c.askBool("Also delete non-admin identity accounts?", false); err != nil {
			return nil, err
		}
	}

	for _, role := range RoleOrder {
		include, err := c.askBool(fmt.Sprintf("Seed %s accounts?", role), true)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}
		count, err := c.askInt(fmt.Sprintf("How many %s accounts?", role), DefaultRoleCounts[role])
		if err != nil {
			return nil, err
		}
		if count > 0 {
			p.RoleCounts[role] = count
		}
	}

	if p.SeedCatalogs, err = c.askBool("Seed specialty and lab-test catalogs?", true); err != nil {
		return nil, err
	}
	if p.CenterCount, err = c.askInt("How many centers?", 3); err != nil {
		return nil, err
	}
	if p.SeedDoctorLinks, err = c.askBool("Link doctors to centers?", true); err != nil {
		return nil, err
	}
	if p.SeedRelational, err = c.askBool("Seed services, schedules and sample bookings?", true); err != nil {
		return nil, err
	}
	if p.Password, err = c.askString("Password for seeded accounts", defaultPassword); err != nil {
		return nil, err
	}

	fmt.Fprintf(c.out, "\nPlan: wipe=%v preserveAdmins=%v identityCleanup=%v users=%d centers=%d catalogs=%v links=%v relational=%v\n",
		p.Wipe, p.PreserveAdmins, p.CleanupIdentity, p.TotalUsers(), p.CenterCount,
		p.SeedCatalogs, p.SeedDoctorLinks, p.SeedRelational)

	phrase, err := c.askString(fmt.Sprintf("Type %q to execute", ConfirmPhrase), "")
	if err != nil {
		return nil, err
	}
	if phrase != ConfirmPhrase {
		return nil, ErrAborted
	}

	return p, nil
}

func (c *Collector) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		// Input closed mid-sequence counts as a decline.
		return "", ErrAborted
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Collector) askBool(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(c.out, "%s [%s]: ", prompt, hint)

	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Collector) askInt(prompt string, def int) (int, error) {
	fmt.Fprintf(c.out, "%s [%d]: ", prompt, def)

	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		fmt.Fprintln(c.out, "Not a valid count, keeping default.")
		return def, nil
	}
	return n, nil
}

func (c *Collector) askString(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", prompt)
	}

	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}
