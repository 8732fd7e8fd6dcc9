package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/geocoder89/cinemate/internal/client"
	"github.com/geocoder89/cinemate/internal/domain/movie"
)

const defaultServer = "http://localhost:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	global := flag.NewFlagSet("cinemate", flag.ContinueOnError)
	server := global.String("server", envOr("CINEMATE_SERVER", defaultServer), "API base URL")
	tokenPath := global.String("token-file", "", "where the session token is kept (default: user config dir)")
	global.Usage = func() { usage(global.Output()) }

	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(global.Output())
		return errors.New("missing command")
	}

	path := *tokenPath
	if path == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return fmt.Errorf("locate token file: %w", err)
		}
		path = p
	}

	c := client.New(*server, client.FileTokenStore{Path: path})
	app := client.NewApp(c)
	cmd, cmdArgs := rest[0], rest[1:]

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var err error
	switch cmd {
	case "signup", "login":
		err = authenticate(ctx, c, cmd, cmdArgs, stdin, stdout)
	case "logout":
		if err = c.Logout(); err == nil {
			fmt.Fprintln(stdout, "Logged out.")
		}
	case "list":
		if err = app.Refresh(ctx); err == nil {
			printMovies(stdout, app.Movies)
		}
	case "add":
		err = add(ctx, app, cmdArgs, stdout)
	case "edit":
		err = edit(ctx, app, cmdArgs, stdout)
	case "delete":
		err = remove(ctx, app, cmdArgs, stdout)
	default:
		usage(global.Output())
		return fmt.Errorf("unknown command %q", cmd)
	}

	return friendly(err)
}

func authenticate(ctx context.Context, c *client.Client, cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("CINEMATE_PASSWORD"), "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return errors.New("-email is required")
	}
	if *password == "" {
		p, err := prompt(stdin, stdout, "Password: ")
		if err != nil {
			return err
		}
		*password = p
	}

	login := c.Login
	if cmd == "signup" {
		login = c.Signup
	}

	s, err := login(ctx, *email, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Logged in as %s (session valid until %s).\n", s.User.Email, s.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func formFlags(fs *flag.FlagSet, f *client.MovieForm) {
	fs.StringVar(&f.Title, "title", f.Title, "movie title")
	fs.StringVar(&f.WatchedDate, "date", f.WatchedDate, "date watched, YYYY-MM-DD")
	fs.StringVar(&f.Rating, "rating", f.Rating, "rating from 1 to 10")
	fs.StringVar(&f.Genres, "genres", f.Genres, "comma separated genres")
	fs.StringVar(&f.Tags, "tags", f.Tags, "comma separated tags")
	fs.StringVar(&f.Director, "director", f.Director, "director")
	fs.StringVar(&f.Actors, "actors", f.Actors, "comma separated actors")
	fs.StringVar(&f.Notes, "notes", f.Notes, "free text notes")
	fs.StringVar(&f.PosterURL, "poster", f.PosterURL, "poster image URL")
}

func add(ctx context.Context, app *client.App, args []string, stdout io.Writer) error {
	form := client.MovieForm{WatchedDate: time.Now().Format(movie.DateLayout)}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	formFlags(fs, &form)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.Add(ctx, form); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Movie added.")
	printMovies(stdout, app.Movies)
	return nil
}

// edit starts from the stored record; only flags given on the command line
// replace its values.
func edit(ctx context.Context, app *client.App, args []string, stdout io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("usage: cinemate edit <id> [-title ...] [-rating ...]")
	}
	id := args[0]

	form, err := app.EditForm(ctx, id)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	formFlags(fs, &form)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if err := app.Edit(ctx, id, form); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Movie updated.")
	printMovies(stdout, app.Movies)
	return nil
}

func remove(ctx context.Context, app *client.App, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: cinemate delete <id>")
	}

	if err := app.Remove(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Movie deleted.")
	printMovies(stdout, app.Movies)
	return nil
}

func printMovies(w io.Writer, ms []movie.Movie) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No movies logged yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWATCHED\tRATING\tTITLE\tDIRECTOR\tGENRES")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%d/10\t%s\t%s\t%s\n",
			m.ID, m.WatchedDate, m.Rating, m.Title, m.Director, client.JoinList(m.Genres))
	}
	_ = tw.Flush()
}

// friendly maps errors to the short messages shown to the user.
func friendly(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return errors.New("your session has expired, run `cinemate login` again")
	case errors.Is(err, client.ErrMovieNotFound):
		return errors.New("no such movie in your log")
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case "invalid_credentials":
			return errors.New("invalid email or password")
		case "email_taken":
			return errors.New("an account with this email already exists")
		case "invalid_request":
			return errors.New("some fields are missing or invalid")
		}
		return errors.New("the request failed, please try again")
	}
	return err
}

func prompt(stdin io.Reader, stdout io.Writer, label string) (string, error) {
	fmt.Fprint(stdout, label)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: cinemate [-server URL] [-token-file PATH] <command> [flags]

Commands:
  signup   -email E [-password P]   Create an account and log in
  login    -email E [-password P]   Log in
  logout                            Forget the stored session
  list                              Show your movies
  add      -title -date -rating -genres -director -actors [-tags -notes -poster]
  edit     <id> [same flags as add]  Change fields of a movie
  delete   <id>                      Remove a movie`)
}
