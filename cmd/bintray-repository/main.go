// Command bintray-repository is the Concourse resource for Bintray
// repositories.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rabbitmq/concourse-bintray-resources/resource"
	"github.com/rabbitmq/concourse-bintray-resources/resource/cli"
	"github.com/rabbitmq/concourse-bintray-resources/resource/repositories"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewCommand("bintray-repository", build))
	stop()
	os.Exit(code)
}

func build(connect cli.Connector) resource.Handlers {
	return repositories.New(func(username, apiKey string) (repositories.Client, error) {
		return connect(username, apiKey)
	}).Handlers()
}
