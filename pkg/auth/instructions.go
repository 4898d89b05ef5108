package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPIKeyGuide explains how to obtain and store a personal NASA API key
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "NASA API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a key every request uses DEMO_KEY, which NASA limits to")
	fmt.Fprintln(w, "30 requests per hour and 50 per day per IP address.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. Sign up at https://api.nasa.gov (the key is emailed immediately)")
	fmt.Fprintln(w, "2. Store it:   marsphotos auth set-key")
	fmt.Fprintln(w, "   or export:  MARSPHOTOS_API_KEY=<key>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stored keys live in the system keychain when one is available and")
	fmt.Fprintln(w, "in an encrypted file under the config directory otherwise.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
