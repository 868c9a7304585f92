// Command bintray-package is the Concourse resource for Bintray packages.
//
// Install it as /opt/resource/check, /opt/resource/in and /opt/resource/out,
// or pass the script with --script.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rabbitmq/concourse-bintray-resources/resource"
	"github.com/rabbitmq/concourse-bintray-resources/resource/cli"
	"github.com/rabbitmq/concourse-bintray-resources/resource/packages"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewCommand("bintray-package", build))
	stop()
	os.Exit(code)
}

func build(connect cli.Connector) resource.Handlers {
	return packages.New(func(username, apiKey string) (packages.Client, error) {
		return connect(username, apiKey)
	}).Handlers()
}
