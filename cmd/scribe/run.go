package main

type RunGitCmd struct {
	Args []string `arg:"" help:"Arguments to pass to the git command. This requires git to be in the path."`
}

func (c *RunGitCmd) Run(ctx *context) error {
	return ctx.ws.RunGit(c.Args...)
}
