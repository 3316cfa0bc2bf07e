// Command landingchat shows the project landing page with its AI assistant.
package main

import "github.com/nhut0902/landingchat/internal/commands"

func main() {
	commands.Execute()
}
