package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// Client is a previously billed party kept in the client directory.
type Client struct {
	Name          string `yaml:"name"           json:"name"`
	InvoicePrefix string `yaml:"invoice_prefix" json:"invoice_prefix"`
	Address       string `yaml:"address"        json:"address"`
	Phone         string `yaml:"phone,omitempty" json:"phone,omitempty"`
}

// ClientDirectory is the append-only list of known clients.
type ClientDirectory struct {
	Clients []Client `yaml:"clients" json:"clients"`
}

// Select returns the client at the 1-based display position n.
func (d ClientDirectory) Select(n int) (Client, error) {
	if n < 1 || n > len(d.Clients) {
		return Client{}, fmt.Errorf("client selection %d out of range (1-%d)", n, len(d.Clients))
	}
	return d.Clients[n-1], nil
}

// Party converts the client into the billed party of a document.
func (c Client) Party() Party {
	p := Party{Name: c.Name, Address: c.Address}
	if c.Phone != "" {
		p.Phone = Some(c.Phone)
	}
	return p
}

var companySuffixes = map[string]bool{
	"ltd": true, "limited": true, "llc": true, "inc": true, "plc": true, "llp": true, "co": true,
}

// SuggestPrefix derives an invoice prefix from the initials of a client name,
// splitting CamelCase words: "CareMeds Limited" gives "CM".
func SuggestPrefix(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		word = strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if word == "" || companySuffixes[strings.ToLower(word)] {
			continue
		}
		for _, part := range camelcase.Split(word) {
			r := []rune(part)[0]
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
			}
		}
	}
	return b.String()
}
