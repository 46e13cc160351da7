// Command download-corpus fetches a web page, strips its markup and writes
// a plain-text training corpus: lowercased whitespace tokens, wrapped into
// lines of at most maxTokensPerLine so each line works as one sentence for
// the phrasal trainer.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/html"
)

const maxTokensPerLine = 1000

func main() {
	var (
		url    = flag.String("url", "", "page to download (required)")
		output = flag.String("output", "corpus.txt", "output corpus file")
	)
	flag.Parse()

	if *url == "" {
		flag.Usage()
		os.Exit(1)
	}

	log.Printf("Downloading %s...", *url)
	text, err := fetchText(*url)
	if err != nil {
		log.Fatal("Failed to download page:", err)
	}

	outFile, err := os.Create(*output)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	tokens := strings.Fields(strings.ToLower(text))
	written := 0
	for start := 0; start < len(tokens); start += maxTokensPerLine {
		end := start + maxTokensPerLine
		if end > len(tokens) {
			end = len(tokens)
		}
		if _, err := fmt.Fprintln(outFile, strings.Join(tokens[start:end], " ")); err != nil {
			log.Fatal("Failed to write corpus:", err)
		}
		written++
	}

	log.Printf("✓ Wrote %d tokens in %d lines to %s", len(tokens), written, *output)
}

func fetchText(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		// Skip script and style subtrees entirely.
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String()), nil
}
