// Command twitchcli is a small demo of the client: it authenticates the
// application, looks up the given logins and prints the user records.
//
// Configuration comes from the environment:
//
//	TWITCH_APP_ID     application client id (required)
//	TWITCH_APP_SECRET application client secret (required)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-twitch-client/scopes"
	"github.com/jrsteele09/go-twitch-client/twitch"
)

const appName = "twitchcli"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(appName)

	appID := os.Getenv("TWITCH_APP_ID")
	appSecret := os.Getenv("TWITCH_APP_SECRET")
	if appID == "" || appSecret == "" {
		return errors.New("TWITCH_APP_ID and TWITCH_APP_SECRET have to be set")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	client, err := twitch.New(appID, appSecret, twitch.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.AuthenticateApp(ctx, []scopes.AuthScope{}); err != nil {
		return errors.Wrap(err, "app authentication")
	}

	logins := os.Args[1:]
	if len(logins) == 0 {
		return errors.New("usage: twitchcli <login> [login...]")
	}

	users, err := client.GetUsers(ctx, nil, logins)
	if err != nil {
		return errors.Wrap(err, "fetching users")
	}

	out, err := json.MarshalIndent(users.Data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "rendering output")
	}
	fmt.Println(string(out))
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
