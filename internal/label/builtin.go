package label

// Builtin templates for the supported SBP label stock, carried over from the
// layouts shipped with the original label sheets.

var builtinTemplates = []Template{
	{
		ID:          "sbp100375-full",
		Name:        "SBP100375 Full",
		Description: "Full featured cable label with QR code, terminations, and details",
		Size:        SizeSBP100375,
		WidthMM:     25.4,
		HeightMM:    38.0,
		DPI:         300,
		IncludeQR:   true,
		Default:     true,
		Body: `^XA
^MMT
^PW300
^LL450
^LS0

^FO24,24
^A0N,42,36
^FB252,1,0,C
^FD{cable_id}^FS

^FO180,20
^BQN,2,5
^FDLA,{cable_url}^FS

^FO24,75
^A0N,22,18
^FDFrom: {term_a_device}^FS

^FO24,100
^A0N,20,16
^FD  {term_a_interface}^FS

^FO24,130
^A0N,22,18
^FDTo: {term_b_device}^FS

^FO24,155
^A0N,20,16
^FD  {term_b_interface}^FS

^FO24,185
^GB252,2,2^FS

^FO24,195
^A0N,20,16
^FD{type} {length}^FS

^FO24,220
^A0N,18,14
^FD{date}^FS

^PQ1,0,1,Y
^XZ`,
	},
	{
		ID:          "sbp100375-compact",
		Name:        "SBP100375 Compact",
		Description: "Compact cable label focusing on ID and QR code",
		Size:        SizeSBP100375,
		WidthMM:     25.4,
		HeightMM:    38.0,
		DPI:         300,
		IncludeQR:   true,
		Body: `^XA
^MMT
^PW300
^LL450
^LS0

^FO24,30
^A0N,50,44
^FB252,1,0,C
^FD{cable_id}^FS

^FO75,100
^BQN,2,6
^FDLA,{cable_url}^FS

^FO24,340
^A0N,24,20
^FB252,1,0,C
^FD{term_a_device}^FS

^FO24,370
^A0N,18,14
^FB252,1,0,C
^FD-> {term_b_device}^FS

^PQ1,0,1,Y
^XZ`,
	},
	{
		ID:          "sbp100225-standard",
		Name:        "SBP100225 Standard",
		Description: "Standard medium-sized cable label",
		Size:        SizeSBP100225,
		WidthMM:     19.1,
		HeightMM:    25.0,
		DPI:         300,
		IncludeQR:   true,
		Default:     true,
		Body: `^XA
^MMT
^PW225
^LL295
^LS0

^FO20,20
^A0N,36,30
^FD{cable_id}^FS

^FO130,15
^BQN,2,4
^FDLA,{cable_url}^FS

^FO20,65
^A0N,20,16
^FDA:{term_a_device}^FS

^FO20,90
^A0N,20,16
^FDB:{term_b_device}^FS

^FO20,120
^A0N,18,14
^FD{type} {length}^FS

^PQ1,0,1,Y
^XZ`,
	},
	{
		ID:          "sbp100143-minimal",
		Name:        "SBP100143 Minimal",
		Description: "Minimal small label with ID and QR only",
		Size:        SizeSBP100143,
		WidthMM:     12.7,
		HeightMM:    18.0,
		DPI:         300,
		IncludeQR:   true,
		Default:     true,
		Body: `^XA
^MMT
^PW150
^LL212
^LS0

^FO15,15
^A0N,30,24
^FD{cable_id}^FS

^FO40,55
^BQN,2,3
^FDLA,{cable_url}^FS

^PQ1,0,1,Y
^XZ`,
	},
	{
		ID:          "sbp100375-text",
		Name:        "SBP100375 Text Only",
		Description: "Text-only label without QR code",
		Size:        SizeSBP100375,
		WidthMM:     25.4,
		HeightMM:    38.0,
		DPI:         300,
		Body: `^XA
^MMT
^PW300
^LL450
^LS0

^FO24,20
^A0N,50,44
^FB252,1,0,C
^FD{cable_id}^FS

^FO24,80
^GB252,2,2^FS

^FO24,95
^A0N,24,20
^FDFrom:^FS

^FO24,125
^A0N,22,18
^FB252,1,0,L
^FD{term_a_device}^FS

^FO24,150
^A0N,20,16
^FD{term_a_interface}^FS

^FO24,185
^A0N,24,20
^FDTo:^FS

^FO24,215
^A0N,22,18
^FB252,1,0,L
^FD{term_b_device}^FS

^FO24,240
^A0N,20,16
^FD{term_b_interface}^FS

^FO24,280
^GB252,2,2^FS

^FO24,295
^A0N,22,18
^FD{type}^FS

^FO24,320
^A0N,22,18
^FDLength: {length}^FS

^FO24,350
^A0N,18,14
^FD{date}^FS

^PQ1,0,1,Y
^XZ`,
	},
}

// NewBuiltinRegistry returns a registry pre-loaded with the builtin templates.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, t := range builtinTemplates {
		if err := r.Register(t); err != nil {
			// Builtins are compile-time constants; a failure here is a bug.
			panic(err)
		}
	}
	return r
}
