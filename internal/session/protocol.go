package session

// Message types sent by the browser client.
const (
	MsgInit       = "init"
	MsgStyle      = "style"
	MsgBegin      = "begin"
	MsgMove       = "move"
	MsgEnd        = "end"
	MsgClear      = "clear"
	MsgDrop       = "drop"
	MsgLoad       = "load"
	MsgGenerate   = "generate"
	MsgUseResult  = "useresult"
	MsgScreenshot = "screenshot"
	MsgExport     = "export"
	MsgCopy       = "copy"
)

// Message types sent back to the browser client.
const (
	MsgHello  = "hello"
	MsgFrame  = "frame"
	MsgResult = "result"
	MsgBusy   = "busy"
	MsgSaved  = "saved"
	MsgError  = "error"
)

// Incoming is a client message. Fields beyond Type are populated depending on
// the message type.
type Incoming struct {
	Type string `json:"type"`

	// init
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	// style
	Tool       string  `json:"tool,omitempty"`
	Color      string  `json:"color,omitempty"`
	BrushWidth float64 `json:"brushWidth,omitempty"`

	// begin, move, drop
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// drop, load
	MIME string `json:"mime,omitempty"`
	Data string `json:"data,omitempty"`

	// generate
	Prompt string `json:"prompt,omitempty"`

	// export
	Format string `json:"format,omitempty"`
}

// Outgoing is a server message.
type Outgoing struct {
	Type string `json:"type"`

	// hello
	Session string   `json:"session,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Colors  []string `json:"colors,omitempty"`
	Widths  []int    `json:"widths,omitempty"`

	// frame, result
	Image      string `json:"image,omitempty"`
	Commentary string `json:"commentary,omitempty"`

	// busy
	Busy bool `json:"busy,omitempty"`

	// saved
	Path string `json:"path,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}
