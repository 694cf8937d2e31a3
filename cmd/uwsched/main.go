package main

import (
	"uwsched/cmd/uwsched/commands"
	"uwsched/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
