package sink

import (
	"bytes"

	"github.com/matzehuels/linkdrift/pkg/scene"
)

// RenderJSON encodes the layout as indented JSON.
func RenderJSON(l *scene.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
