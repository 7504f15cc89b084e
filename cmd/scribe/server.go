package main

import (
	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/server"
	"github.com/pescuma/scribe/lib/storages"
)

type ServerCmd struct {
	Port uint `help:"Port to listen on." default:"7274"`
}

func (c *ServerCmd) Run(ctx *context) error {
	return ctx.ws.Execute(func(console consoles.Console, storage storages.Storage) error {
		return server.Run(console, storage, &server.Options{
			Port: c.Port,
		})
	})
}
