//go:build js && wasm

// GoStego WASM — client-side encoder/decoder.
// Compiled with: GOOS=js GOARCH=wasm go build -o gostego.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"syscall/js"

	"github.com/xob0t/GoStego/pkg/generator"
	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/lsb"
	"github.com/xob0t/GoStego/pkg/stego"
)

// In-memory image store, so a cover can be reused across calls.
var (
	assetsMu sync.RWMutex
	assets   = make(map[string][]byte)
)

func main() {
	fmt.Println("GoStego WASM loaded")

	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goEncodeText", js.FuncOf(encodeText))
	js.Global().Set("goEncodeImage", js.FuncOf(encodeImage))
	js.Global().Set("goDecodeText", js.FuncOf(decodeText))
	js.Global().Set("goDecodeImage", js.FuncOf(decodeImage))
	js.Global().Set("goCapacity", js.FuncOf(capacity))
	js.Global().Set("goGenerateCover", js.FuncOf(generateCover))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

func errorValue(format string, args ...any) js.Value {
	return js.ValueOf("error: " + fmt.Sprintf(format, args...))
}

// loadImage resolves ref as an asset ID, falling back to base64 image data.
func loadImage(ref string) (image.Image, error) {
	assetsMu.RLock()
	data, ok := assets[ref]
	assetsMu.RUnlock()
	if !ok {
		var err error
		data, err = base64.StdEncoding.DecodeString(ref)
		if err != nil {
			return nil, fmt.Errorf("unknown asset and invalid base64: %w", err)
		}
	}
	img, _, err := imageio.Decode(bytes.NewReader(data))
	return img, err
}

func pngValue(img image.Image) js.Value {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, "png"); err != nil {
		return errorValue("encode: %v", err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goRegisterAsset(id, base64Data) — store an image in Go memory.
func registerAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("need id, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return errorValue("invalid base64: %v", err)
	}
	assetsMu.Lock()
	assets[args[0].String()] = data
	assetsMu.Unlock()
	return js.ValueOf("ok")
}

// goRemoveAsset(id) — remove an image from Go memory.
func removeAsset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("need id")
	}
	assetsMu.Lock()
	delete(assets, args[0].String())
	assetsMu.Unlock()
	return js.ValueOf("ok")
}

// goEncodeText(cover, text) — return base64 PNG with text hidden.
func encodeText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("need cover, text")
	}
	cover, err := loadImage(args[0].String())
	if err != nil {
		return errorValue("cover: %v", err)
	}
	img, err := stego.HideText(cover, []byte(args[1].String()))
	if err != nil {
		return errorValue("%v", err)
	}
	return pngValue(img)
}

// goEncodeImage(cover, secret, fit) — return base64 PNG with secret hidden.
func encodeImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorValue("need cover, secret")
	}
	cover, err := loadImage(args[0].String())
	if err != nil {
		return errorValue("cover: %v", err)
	}
	secret, err := loadImage(args[1].String())
	if err != nil {
		return errorValue("secret: %v", err)
	}
	fit := len(args) > 2 && args[2].Truthy()
	img, err := stego.HideImage(cover, secret, fit)
	if err != nil {
		return errorValue("%v", err)
	}
	return pngValue(img)
}

// goDecodeText(image) — return the hidden text.
func decodeText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("need image")
	}
	img, err := loadImage(args[0].String())
	if err != nil {
		return errorValue("image: %v", err)
	}
	text, err := stego.RevealText(img, lsb.Decoder{})
	if err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(string(text))
}

// goDecodeImage(image) — return the hidden image as base64 PNG.
func decodeImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("need image")
	}
	img, err := loadImage(args[0].String())
	if err != nil {
		return errorValue("image: %v", err)
	}
	secret, err := stego.RevealImage(img, lsb.Decoder{})
	if err != nil {
		return errorValue("%v", err)
	}
	return pngValue(secret)
}

// goCapacity(image) — return a JSON capacity report.
func capacity(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue("need image")
	}
	img, err := loadImage(args[0].String())
	if err != nil {
		return errorValue("image: %v", err)
	}
	out, _ := json.Marshal(stego.Capacity(img))
	return js.ValueOf(string(out))
}

// goGenerateCover(width, height, color) — return a noisy cover as base64 PNG.
func generateCover(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorValue("need width, height, color")
	}
	img, err := generator.NewCover(generator.Config{
		Width:  args[0].Int(),
		Height: args[1].Int(),
		Color:  args[2].String(),
		Noise:  2,
	})
	if err != nil {
		return errorValue("%v", err)
	}
	return pngValue(img)
}
