package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"profile-hub/internal/client"
	"profile-hub/internal/delivery/http/dto"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

const usage = `usage: profilectl [flags] <command> [args]

commands:
  signup <email> <password>
  login <email> <password>
  logout
  whoami
  profile
  skills
  add-skill <name> [level] [certificate-file]
  rm-skill <id>
  hobbies
  add-hobby <name>
  rm-hobby <id>
`

func main() {
	home, _ := os.UserHomeDir()
	server := flag.String("server", envOr("PROFILE_HUB_URL", "http://localhost:5008/api/v1/users"), "users API base URL")
	sessionPath := flag.String("session", filepath.Join(home, ".profile-hub", "session.json"), "where the session tokens are kept")
	timeout := flag.Duration("timeout", 30*time.Second, "per-command timeout")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*server, client.WithTokenStore(client.NewFileStore(*sessionPath)))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, c, args[0], args[1:]); err != nil {
		var apiErr *client.APIError
		switch {
		case errors.Is(err, client.ErrSessionExpired):
			color.Yellow("session expired, run: profilectl login <email> <password>")
		case errors.As(err, &apiErr):
			color.Red("%d %s", apiErr.Status, apiErr.Message)
		default:
			color.Red("%v", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "signup":
		if len(args) != 2 {
			return errors.New("signup needs <email> <password>")
		}
		u, err := c.Signup(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		color.Green("created %s (%s)", u.Email, u.ID)

	case "login":
		if len(args) != 2 {
			return errors.New("login needs <email> <password>")
		}
		u, err := c.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		color.Green("logged in as %s", u.Email)

	case "logout":
		if err := c.Logout(ctx); err != nil {
			return err
		}
		color.Cyan("logged out")

	case "whoami":
		id, err := c.VerifyToken(ctx)
		if err != nil {
			return err
		}
		fmt.Println(id)

	case "profile":
		p, err := c.Profile(ctx)
		if err != nil {
			return err
		}
		return printProfile(p)

	case "skills":
		skills, err := c.Skills().List(ctx)
		if err != nil {
			return err
		}
		return printSkills(skills)

	case "add-skill":
		if len(args) < 1 {
			return errors.New("add-skill needs <name>")
		}
		fields := client.Fields{"name": args[0]}
		if len(args) > 1 {
			fields["level"] = args[1]
		}
		var cert *client.Upload
		if len(args) > 2 {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			cert = &client.Upload{Filename: filepath.Base(args[2]), Data: data}
		}
		s, err := c.Skills().Create(ctx, fields, cert)
		if err != nil {
			return err
		}
		color.Green("added skill %s (%s)", s.Name, s.ID)

	case "rm-skill":
		id, err := oneID(args)
		if err != nil {
			return err
		}
		if err := c.Skills().Delete(ctx, id); err != nil {
			return err
		}
		color.Cyan("removed skill %s", id)

	case "hobbies":
		hobbies, err := c.Hobbies().List(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(hobbies))
		for _, h := range hobbies {
			rows = append(rows, []string{h.ID.String(), h.Name})
		}
		return render([]string{"ID", "Name"}, rows)

	case "add-hobby":
		if len(args) != 1 {
			return errors.New("add-hobby needs <name>")
		}
		h, err := c.Hobbies().Create(ctx, client.Fields{"name": args[0]}, nil)
		if err != nil {
			return err
		}
		color.Green("added hobby %s (%s)", h.Name, h.ID)

	case "rm-hobby":
		id, err := oneID(args)
		if err != nil {
			return err
		}
		if err := c.Hobbies().Delete(ctx, id); err != nil {
			return err
		}
		color.Cyan("removed hobby %s", id)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func oneID(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, errors.New("expected exactly one <id>")
	}
	return uuid.Parse(args[0])
}

func printProfile(p dto.ProfileResponse) error {
	age := ""
	if p.Age != nil {
		age = fmt.Sprint(*p.Age)
	}
	if err := render([]string{"Field", "Value"}, [][]string{
		{"Email", p.Email},
		{"Name", p.Name},
		{"Bio", p.Bio},
		{"Age", age},
		{"Location", p.Location},
		{"Portfolio", p.PortfolioURL},
		{"Educations", fmt.Sprint(len(p.Educations))},
		{"Experiences", fmt.Sprint(len(p.Experiences))},
		{"Hobbies", fmt.Sprint(len(p.Hobbies))},
	}); err != nil {
		return err
	}
	return printSkills(p.Skills)
}

func printSkills(skills []dto.SkillResponse) error {
	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		level := color.New(color.Faint).Sprint("-")
		if s.Level != nil {
			level = color.CyanString(*s.Level)
		}
		cert := ""
		if s.Certificate != nil {
			cert = *s.Certificate
		}
		rows = append(rows, []string{s.ID.String(), s.Name, level, cert})
	}
	return render([]string{"ID", "Skill", "Level", "Certificate"}, rows)
}

func render(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	if err := table.Append(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	return table.Render()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
