package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	echoapi "github.com/trezcool/madrasa/apps/api/echo"
	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/newsletter"
	emailsvc "github.com/trezcool/madrasa/services/email"
	"github.com/trezcool/madrasa/storage/database"
	inmemdb "github.com/trezcool/madrasa/storage/database/inmem"
	mongorepos "github.com/trezcool/madrasa/storage/database/mongo"
	sqlxrepos "github.com/trezcool/madrasa/storage/database/sqlx"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	validate *validator.Validate
	out      io.Writer

	// opened on first use
	db          *sql.DB
	subscribers newsletter.Repository
	mailer      core.EmailService
	closers     []func() error
}

func newCommandLine(conf *core.Config, logger core.Logger, out io.Writer) *commandLine {
	validate, _ := core.NewValidator()
	return &commandLine{
		conf:     conf,
		logger:   logger,
		validate: validate,
		out:      out,
	}
}

// human reports whether output goes to a terminal. JSON is printed otherwise.
func (cli *commandLine) human() bool {
	f, ok := cli.out.(*os.File)
	return ok && isTerminalFunc(int(f.Fd()))
}

func (cli *commandLine) printJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         fmt.Sprintf("%s administration commands", cli.conf.AppName),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(cli.migrateCmd(), cli.tokenCmd(), cli.notifyCmd(), cli.subscribersCmd())
	return root
}

func (cli *commandLine) run(args []string) error {
	if args == nil {
		args = []string{} // cobra falls back to os.Args otherwise
	}
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) close() {
	for i := len(cli.closers) - 1; i >= 0; i-- {
		if err := cli.closers[i](); err != nil {
			cli.logger.Error("closing database", err)
		}
	}
	cli.closers = nil
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a database migration command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errHelp
			}
			return cli.migrate(args)
		},
	}
}

func (cli *commandLine) tokenCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject = core.CleanString(subject)
			if subject == "" {
				_ = cmd.Help()
				return errHelp
			}
			token, err := echoapi.GenerateToken(cli.conf, echoapi.NewAdminClaims(cli.conf, subject))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cli.out, token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to (e.g. an email)")
	return cmd
}

func (cli *commandLine) notifyCmd() *cobra.Command {
	var req newsletter.NotificationRequest
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a notification to every active newsletter subscriber",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Title == "" && req.Message == "" {
				_ = cmd.Help()
				return errHelp
			}
			return cli.notify(req)
		},
	}
	cmd.Flags().StringVar(&req.Type, "type", newsletter.TypeNews, "notification type: news|academic")
	cmd.Flags().StringVar(&req.Title, "title", "", "notification title")
	cmd.Flags().StringVar(&req.Message, "message", "", "notification message")
	cmd.Flags().StringVar(&req.Link, "link", "", "optional link, relative to the site URL or absolute")
	return cmd
}

func (cli *commandLine) subscribersCmd() *cobra.Command {
	var filter newsletter.QueryFilter
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "List newsletter subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.listSubscribers(filter)
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", "", "filter by status: active|unsubscribed")
	return cmd
}

func (cli *commandLine) notify(req newsletter.NotificationRequest) error {
	repo, err := cli.subscriberRepo()
	if err != nil {
		return err
	}
	if cli.mailer == nil {
		cli.mailer = emailsvc.New(cli.conf)
	}

	dispatcher := newsletter.NewDispatcher(newsletter.DispatcherDeps{
		Repo:     repo,
		Mailer:   cli.mailer,
		Conf:     cli.conf,
		Validate: cli.validate,
		Logger:   cli.logger,
	})
	res, err := dispatcher.Dispatch(context.Background(), req)
	if err != nil {
		return err
	}

	if !cli.human() {
		return cli.printJSON(res)
	}
	switch res.Status {
	case newsletter.DispatchNoSubscribers:
		fmt.Fprintln(cli.out, "No active subscribers: nothing to send.")
	case newsletter.DispatchPreview:
		fmt.Fprintf(cli.out, "PREVIEW (%s)\nSubject: %s\nWould be sent to %d subscriber(s):\n", res.Message, res.Subject, res.SubscribersCount)
		for _, email := range res.Recipients {
			fmt.Fprintf(cli.out, "  %s\n", email)
		}
	default:
		fmt.Fprintf(cli.out, "Subject: %s\nSent: %d/%d\n", res.Subject, res.Successful, res.SubscribersCount)
		for _, rr := range res.Results {
			if !rr.OK() {
				fmt.Fprintf(cli.out, "  FAILED %s: %s\n", rr.Email, rr.Error)
			}
		}
	}
	if !res.Success {
		return errors.New("every delivery failed")
	}
	return nil
}

func (cli *commandLine) listSubscribers(filter newsletter.QueryFilter) error {
	repo, err := cli.subscriberRepo()
	if err != nil {
		return err
	}
	subs, err := newsletter.NewService(repo, cli.validate).Query(context.Background(), filter)
	if err != nil {
		return err
	}

	if !cli.human() {
		return cli.printJSON(subs)
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tSTATUS\tSUBSCRIBED AT")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", sub.Email, sub.Status, sub.SubscribedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

// sqlDB opens the postgres database, creating it if needed.
func (cli *commandLine) sqlDB() (*sql.DB, error) {
	if cli.db != nil {
		return cli.db, nil
	}
	if cli.conf.Database.Engine != core.EnginePostgres {
		return nil, errors.Errorf("migrations are not supported by the %q engine", cli.conf.Database.Engine)
	}
	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return nil, err
	}
	db, err := database.Open(cli.conf)
	if err != nil {
		return nil, err
	}
	cli.db = db.DB
	cli.closers = append(cli.closers, db.Close)
	return cli.db, nil
}

func (cli *commandLine) subscriberRepo() (newsletter.Repository, error) {
	if cli.subscribers != nil {
		return cli.subscribers, nil
	}

	switch cli.conf.Database.Engine {
	case core.EngineMemory:
		cli.subscribers = inmemdb.NewSubscriberRepository(inmemdb.NewDB())
	case core.EngineMongo:
		db, err := mongorepos.Open(context.Background(), cli.conf)
		if err != nil {
			return nil, err
		}
		cli.closers = append(cli.closers, func() error { return db.Client().Disconnect(context.Background()) })
		cli.subscribers = mongorepos.NewSubscriberRepository(db)
	case core.EnginePostgres:
		db, err := database.Open(cli.conf)
		if err != nil {
			return nil, err
		}
		cli.closers = append(cli.closers, db.Close)
		cli.subscribers = sqlxrepos.NewSubscriberRepository(db)
	default:
		return nil, errors.Errorf("unknown database engine %q", cli.conf.Database.Engine)
	}
	return cli.subscribers, nil
}
