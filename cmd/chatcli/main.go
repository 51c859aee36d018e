// chatcli - terminal chat client for smoke-testing the assistant.
//
// It drives the same conversation contract the web widget uses: free text
// goes to the classifier, numbered chips can be tapped with !N, and a
// failed round trip falls back client-side instead of erroring out.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmopane/sitechat/internal/tenant"
	"github.com/mmopane/sitechat/internal/widget"
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "server base URL")
		tenantName = flag.String("tenant", "interior", "builtin tenant config to use")
	)
	flag.Parse()

	tc, err := tenant.Builtin(*tenantName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chatcli:", err)
		os.Exit(1)
	}

	draftPath := filepath.Join(os.TempDir(), "sitechat-"+*tenantName+"-lead.json")
	conv := widget.NewConversation(
		tc.Widget,
		tc.WhatsApp,
		widget.NewHTTPClient(*baseURL),
		widget.NewFileDraftStore(draftPath),
	)

	conv.Open()
	printLatest(conv, 1)

	fmt.Println(`(type a message, !N to tap chip N, "quit" to exit)`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		before := len(conv.Transcript())
		if n, ok := chipIndex(line); ok {
			chips := conv.Suggestions()
			if n < 1 || n > len(chips) {
				fmt.Println("no such chip")
				continue
			}
			action := conv.TapChip(context.Background(), chips[n-1])
			switch action.Kind {
			case widget.ActionNavigate:
				fmt.Println("[navigate]", action.URL)
			case widget.ActionOpenLink:
				fmt.Println("[open]", action.URL)
			}
		} else {
			conv.Send(context.Background(), line)
		}
		printLatest(conv, len(conv.Transcript())-before)
	}
}

// chipIndex parses "!3" style chip taps.
func chipIndex(line string) (int, bool) {
	if !strings.HasPrefix(line, "!") {
		return 0, false
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func printLatest(conv *widget.Conversation, count int) {
	transcript := conv.Transcript()
	if count > len(transcript) {
		count = len(transcript)
	}
	for _, t := range transcript[len(transcript)-count:] {
		if t.Sender == widget.SenderBot {
			fmt.Println("\nbot:", t.Text)
		}
	}
	if chips := conv.Suggestions(); len(chips) > 0 {
		fmt.Println()
		for i, c := range chips {
			fmt.Printf("  [%d] %s\n", i+1, c)
		}
	}
}
