package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"labact/host/console"
	"labact/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = 0 // commands block until the device answers

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("Connected to %s\n", *device)
	fmt.Println("Enter commands (type 'quit' to exit):")

	session := console.NewSession(port)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			return
		}

		res, err := session.Do(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, l := range res.Lines {
			fmt.Println(l)
		}
		if res.Ok() {
			fmt.Println("ok")
		} else {
			fmt.Printf("error: %s\n", res.Err)
		}
	}
}
