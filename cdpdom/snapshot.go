package cdpdom

import (
	"fmt"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/mailru/easyjson"
)

// DecodeSnapshot decodes a saved DOM.getDocument result. Accepted are the
// full protocol response ({"id":..,"result":{"root":..}}), its result
// ({"root":..}), and a bare node.
func DecodeSnapshot(buf []byte) (*cdp.Node, error) {
	var msg cdproto.Message
	if err := easyjson.Unmarshal(buf, &msg); err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	switch {
	case msg.Error != nil:
		return nil, msg.Error
	case len(msg.Result) != 0:
		buf = msg.Result
	}

	var res dom.GetDocumentReturns
	if err := easyjson.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	if res.Root != nil {
		return res.Root, nil
	}

	root := new(cdp.Node)
	if err := easyjson.Unmarshal(buf, root); err != nil {
		return nil, fmt.Errorf("could not decode snapshot node: %w", err)
	}
	if root.NodeType == 0 && root.NodeName == "" {
		return nil, ErrEmptySnapshot
	}
	return root, nil
}
