package theme

// The catalog is fixed and ordered; the four tiers exist only for how the
// picker presents the swatches and have no behavioral effect.

var catalog = []Theme{
	{Name: "default", Kind: KindColor, PageBg: "white", Primary: "#f59e0b", TextDark: "#1f2937", TextMedium: "#4b5563", TextLight: "#6b7280", Border: "#d1d5db", HeaderBg: "#f9fafb"},
	{Name: "blue", Kind: KindColor, PageBg: "white", Primary: "#2563eb", TextDark: "#1f2937", TextMedium: "#4b5563", TextLight: "#6b7280", Border: "#d1d5db", HeaderBg: "#f9fafb"},
	{Name: "green", Kind: KindColor, PageBg: "white", Primary: "#16a34a", TextDark: "#1f2937", TextMedium: "#4b5563", TextLight: "#6b7280", Border: "#d1d5db", HeaderBg: "#f9fafb"},
	{Name: "purple", Kind: KindColor, PageBg: "white", Primary: "#4f46e5", TextDark: "#1f2937", TextMedium: "#4b5563", TextLight: "#6b7280", Border: "#d1d5db", HeaderBg: "#f9fafb"},
	{Name: "slate", Kind: KindColor, PageBg: "#374151", Primary: "#9ca3af", TextDark: "#f9fafb", TextMedium: "#d1d5db", TextLight: "#9ca3af", Border: "#4b5563", HeaderBg: "#4b5563"},
	{Name: "ocean", Kind: KindColor, PageBg: "#0c4a6e", Primary: "#7dd3fc", TextDark: "#f0f9ff", TextMedium: "#e0f2fe", TextLight: "#bae6fd", Border: "#0369a1", HeaderBg: "#075985"},
	{Name: "sunset", Kind: KindColor, PageBg: "#7c2d12", Primary: "#fdba74", TextDark: "#fff7ed", TextMedium: "#ffedd5", TextLight: "#fed7aa", Border: "#9a3412", HeaderBg: "#9a3412"},
	{Name: "cherry", Kind: KindColor, PageBg: "#7f1d1d", Primary: "#fca5a5", TextDark: "#fee2e2", TextMedium: "#fecaca", TextLight: "#fca5a5", Border: "#991b1b", HeaderBg: "#991b1b"},
	{Name: "mint", Kind: KindColor, PageBg: "#f0fdfa", Primary: "#14b8a6", TextDark: "#0f766e", TextMedium: "#115e59", TextLight: "#134e4a", Border: "#ccfbf1", HeaderBg: "rgba(204, 251, 241, 0.5)"},
	{Name: "lavender", Kind: KindColor, PageBg: "#f5f3ff", Primary: "#8b5cf6", TextDark: "#5b21b6", TextMedium: "#6d28d9", TextLight: "#7c3aed", Border: "#ede9fe", HeaderBg: "rgba(237, 233, 254, 0.5)"},
	{Name: "blush", Kind: KindColor, PageBg: "#fff1f2", Primary: "#f43f5e", TextDark: "#be123c", TextMedium: "#9f1239", TextLight: "#881337", Border: "#ffe4e6", HeaderBg: "rgba(255, 228, 230, 0.5)"},
	{Name: "graphite", Kind: KindGradient, PageBg: "linear-gradient(to bottom right, #f9fafb, #e5e7eb)", Primary: "#3b82f6", TextDark: "#1f2937", TextMedium: "#4b5563", TextLight: "#6b7280", Border: "#d1d5db", HeaderBg: "rgba(255,255,255,0.5)"},
	{Name: "seaside", Kind: KindColor, PageBg: "#FAF8F1", Primary: "#34656D", TextDark: "#334443", TextMedium: "#34656D", TextLight: "#34656D", Border: "#FAEAB1", HeaderBg: "rgba(250, 234, 177, 0.3)"},
	{Name: "vibrant", Kind: KindColor, PageBg: "#E9E3DF", Primary: "#FF7A30", TextDark: "#000000", TextMedium: "#465C88", TextLight: "#465C88", Border: "#465C88", HeaderBg: "rgba(70, 92, 136, 0.1)"},
	{Name: "pastel", Kind: KindColor, PageBg: "#FAF7F3", Primary: "#D9A299", TextDark: "#A07855", TextMedium: "#D9A299", TextLight: "#DCC5B2", Border: "#F0E4D3", HeaderBg: "rgba(240, 228, 211, 0.4)"},
	{Name: "rose", Kind: KindColor, PageBg: "#EEEEEE", Primary: "#B9375D", TextDark: "#B9375D", TextMedium: "#D25D5D", TextLight: "#D25D5D", Border: "#E7D3D3", HeaderBg: "rgba(231, 211, 211, 0.4)"},
	{Name: "lime", Kind: KindColor, PageBg: "#FFFADC", Primary: "#B6F500", TextDark: "#98CD00", TextMedium: "#A4DD00", TextLight: "#A4DD00", Border: "#B6F500", HeaderBg: "rgba(182, 245, 0, 0.2)"},
}

var tierNames = []string{"Basic", "Premium", "Professional", "Curated"}

var tierSizes = []int{4, 4, 4, 5}
