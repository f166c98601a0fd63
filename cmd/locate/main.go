// locate finds elements in an HTML document, a saved DOM.getDocument
// snapshot, or the DOM of a live page reachable over the Chrome DevTools
// Protocol, and prints each match as its handle id and outer HTML.
//
// Examples:
//
//	locate -by css -value 'div.content > p' -file page.html
//	locate -by xpath -value '//a[@href]' -all -file snapshot.json
//	locate -by id -value submit -wait 10s -ws ws://127.0.0.1:9222/devtools/page/<id>
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/chromedp/locate"
	"github.com/chromedp/locate/cdpdom"
)

var (
	flagBy    = flag.String("by", "css", "locator strategy (id, name, class, link, partial, tag, xpath, css)")
	flagValue = flag.String("value", "", "locator value")
	flagFile  = flag.String("file", "", "HTML file, or .json DOM.getDocument snapshot (default stdin)")
	flagWS    = flag.String("ws", "", "DevTools page websocket url")
	flagAll   = flag.Bool("all", false, "print every match instead of the first")
	flagWait  = flag.Duration("wait", 0, "retry until a match appears or the duration elapses")
	flagV     = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("locate: ")

	if err := run(context.Background(), os.Stdout); err != nil {
		log.Print(err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps err to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, locate.ErrNoSuchElement):
		return 2
	case errors.Is(err, locate.ErrInvalidSelector):
		return 3
	case errors.Is(err, locate.ErrStaleElementReference):
		return 4
	}
	return 1
}

func run(ctx context.Context, w io.Writer) error {
	l, err := locate.ParseLocator(*flagBy, *flagValue)
	if err != nil {
		return err
	}

	src, closef, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closef()

	opts := []locate.Option{locate.WithErrorf(log.Printf)}
	if *flagV {
		opts = append(opts, locate.WithLogf(log.Printf), locate.WithDebugf(log.Printf))
	}
	f := locate.NewFinder(src, opts...)

	if *flagWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flagWait)
		defer cancel()
	}

	var handles []locate.ElementHandle
	switch {
	case *flagAll && *flagWait > 0:
		handles, err = f.WaitMany(ctx, l)
	case *flagAll:
		handles, err = f.FindMany(ctx, l)
	default:
		var h locate.ElementHandle
		if *flagWait > 0 {
			h, err = f.WaitOne(ctx, l)
		} else {
			h, err = f.FindOne(ctx, l)
		}
		handles = []locate.ElementHandle{h}
	}
	if err != nil {
		return err
	}

	for _, h := range handles {
		n, err := f.Resolve(h)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, n); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", h.ID(), buf.String())
	}
	return nil
}

// openSource returns the document source selected by the flags, and a func
// releasing it.
func openSource(ctx context.Context) (locate.DocumentSource, func(), error) {
	if *flagWS != "" {
		if *flagFile != "" {
			return nil, nil, errors.New("-file and -ws are mutually exclusive")
		}
		opts := []cdpdom.Option{cdpdom.WithErrorf(log.Printf)}
		if *flagV {
			opts = append(opts, cdpdom.WithLogf(log.Printf), cdpdom.WithDebugf(log.Printf))
		}
		src, err := cdpdom.Dial(ctx, *flagWS, opts...)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	}

	doc, err := readDocument(*flagFile)
	if err != nil {
		return nil, nil, err
	}
	return locate.Static(doc), func() {}, nil
}

// readDocument loads the named file, or stdin when name is empty.
func readDocument(name string) (*locate.Document, error) {
	var buf []byte
	var err error
	if name == "" {
		buf, err = io.ReadAll(os.Stdin)
	} else {
		buf, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		root, err := cdpdom.DecodeSnapshot(buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return locate.NewDocument(cdpdom.Convert(root)), nil
	}
	return locate.ParseDocument(bytes.NewReader(buf))
}
