package consoles

type Console interface {
	Printf(format string, a ...any)
	Warnf(format string, a ...any)

	// Prepare formats a message the way Printf would print it, without
	// printing. Used to feed the prefix of wrapped command output.
	Prepare(format string, a ...any) string

	PushPrefix(format string, a ...any)
	PopPrefix()
}
