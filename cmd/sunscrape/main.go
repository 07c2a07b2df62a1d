package main

import (
	"sunscrape/cmd/sunscrape/commands"
	"sunscrape/internal/components/serviceutil"

	_ "time/tzdata"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
