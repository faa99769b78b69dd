// Command scan runs the detector over text from the command line, for
// trying out rule changes without starting the server.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/scamwatch/scamwatch/internal/detector"
)

func main() {
	reportType := "message"
	var content string

	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: scan [type] [content...]")
		fmt.Println("       echo 'text' | scan [type]")
		fmt.Println("Types: email, message, url, link, phone")
		os.Exit(0)
	}

	if len(args) > 0 {
		reportType = args[0]
		content = strings.Join(args[1:], " ")
	}

	if content == "" {
		scanner := bufio.NewScanner(os.Stdin)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		content = strings.Join(lines, "\n")
	}

	result, err := detector.Scan(reportType, content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🔎 SCAM SCAN RESULT")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Type:       %s\n", reportType)
	fmt.Printf("Score:      %d/100\n", result.Score)
	fmt.Printf("Risk Level: %s\n", result.RiskLevel)
	fmt.Println()
	fmt.Println(result.Explanation)

	if urls := detector.ExtractURLs(content); len(urls) > 0 {
		fmt.Println("\nURLs found:")
		for _, url := range urls {
			fmt.Printf("   • %-50s score %d\n", url, detector.AnalyzeURL(url))
		}
	}
}
