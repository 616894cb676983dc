package rules

// brandTable maps keyword containment to brand labels, first match wins.
var brandTable = []brandRule{
	{Label: "apple", Keywords: []string{"iphone", "ipad", "apple watch", "apple", "ipod"}},
	{Label: "samsung", Keywords: []string{"samsung", "galaxy"}},
	{Label: "xiaomi", Keywords: []string{"xiaomi", "redmi", "poco"}},
	{Label: "huawei", Keywords: []string{"huawei", "mate ", "p30", "p40", "p50"}},
	{Label: "motorola", Keywords: []string{"motorola", "moto "}},
	{Label: "oppo", Keywords: []string{"oppo", "reno"}},
	{Label: "vivo", Keywords: []string{"vivo y", "vivo v", "vivo x"}},
	{Label: "realme", Keywords: []string{"realme"}},
	{Label: "oneplus", Keywords: []string{"oneplus", "one plus"}},
	{Label: "google", Keywords: []string{"pixel", "google"}},
	{Label: "honor", Keywords: []string{"honor"}},
	{Label: "lg", Keywords: []string{"lg "}},
	{Label: "sony", Keywords: []string{"sony", "xperia"}},
	{Label: "nokia", Keywords: []string{"nokia"}},
	{Label: "zte", Keywords: []string{"zte"}},
	{Label: "alcatel", Keywords: []string{"alcatel"}},
	{Label: "tcl", Keywords: []string{"tcl"}},
	{Label: "lenovo", Keywords: []string{"lenovo"}},
	{Label: "asus", Keywords: []string{"asus", "zenfone", "rog phone"}},
	{Label: "htc", Keywords: []string{"htc"}},
	{Label: "infinix", Keywords: []string{"infinix"}},
	{Label: "tecno", Keywords: []string{"tecno"}},
}

// appleDevices is ordered most specific first. Exclusions keep a bare model
// from matching text that names a Pro/Plus/Max/mini variant; this ordering
// plus the exclusions is the disambiguation the whole engine depends on.
var appleDevices = []devicePattern{
	{Model: "iphone 15 pro max", Terms: []string{"iphone 15 pro max"}},
	{Model: "iphone 15 pro", Terms: []string{"iphone 15 pro"}, Exclude: []string{"15 pro max"}},
	{Model: "iphone 15 plus", Terms: []string{"iphone 15 plus"}},
	{Model: "iphone 15", Terms: []string{"iphone 15"}, Exclude: []string{"15 pro", "15 plus"}},
	{Model: "iphone 14 pro max", Terms: []string{"iphone 14 pro max"}},
	{Model: "iphone 14 pro", Terms: []string{"iphone 14 pro"}, Exclude: []string{"14 pro max"}},
	{Model: "iphone 14 plus", Terms: []string{"iphone 14 plus"}},
	{Model: "iphone 14", Terms: []string{"iphone 14"}, Exclude: []string{"14 pro", "14 plus"}},
	{Model: "iphone 13 pro max", Terms: []string{"iphone 13 pro max"}},
	{Model: "iphone 13 pro", Terms: []string{"iphone 13 pro"}, Exclude: []string{"13 pro max"}},
	{Model: "iphone 13 mini", Terms: []string{"iphone 13 mini"}},
	{Model: "iphone 13", Terms: []string{"iphone 13"}, Exclude: []string{"13 pro", "13 mini"}},
	{Model: "iphone 12 pro max", Terms: []string{"iphone 12 pro max"}},
	{Model: "iphone 12 pro", Terms: []string{"iphone 12 pro"}, Exclude: []string{"12 pro max"}},
	{Model: "iphone 12 mini", Terms: []string{"iphone 12 mini"}},
	{Model: "iphone 12", Terms: []string{"iphone 12"}, Exclude: []string{"12 pro", "12 mini"}},
	{Model: "iphone 11 pro max", Terms: []string{"iphone 11 pro max"}},
	{Model: "iphone 11 pro", Terms: []string{"iphone 11 pro"}, Exclude: []string{"11 pro max"}},
	{Model: "iphone 11", Terms: []string{"iphone 11"}, Exclude: []string{"11 pro"}},
	{Model: "iphone xs max", Terms: []string{"iphone xs max"}},
	{Model: "iphone xs", Terms: []string{"iphone xs"}, Exclude: []string{"xs max"}},
	{Model: "iphone xr", Terms: []string{"iphone xr"}},
	{Model: "iphone x", Terms: []string{"iphone x"}, Exclude: []string{"iphone xs", "iphone xr"}},
	{Model: "iphone se", Terms: []string{"iphone se"}},
	{Model: "iphone 8 plus", Terms: []string{"iphone 8 plus"}},
	{Model: "iphone 8", Terms: []string{"iphone 8"}, Exclude: []string{"8 plus"}},
	{Model: "iphone 7 plus", Terms: []string{"iphone 7 plus"}},
	{Model: "iphone 7", Terms: []string{"iphone 7"}, Exclude: []string{"7 plus"}},
}

var samsungDevices = []devicePattern{
	{Model: "galaxy s23 ultra", Terms: []string{"s23 ultra"}},
	{Model: "galaxy s23 plus", Terms: []string{"s23 plus"}},
	{Model: "galaxy s23", Terms: []string{"s23"}, Exclude: []string{"s23 ultra", "s23 plus"}},
	{Model: "galaxy s22 ultra", Terms: []string{"s22 ultra"}},
	{Model: "galaxy s22 plus", Terms: []string{"s22 plus"}},
	{Model: "galaxy s22", Terms: []string{"s22"}, Exclude: []string{"s22 ultra", "s22 plus"}},
	{Model: "galaxy s21 ultra", Terms: []string{"s21 ultra"}},
	{Model: "galaxy s21 plus", Terms: []string{"s21 plus"}},
	{Model: "galaxy s21", Terms: []string{"s21"}, Exclude: []string{"s21 ultra", "s21 plus"}},
	{Model: "galaxy note 20 ultra", Terms: []string{"note 20 ultra"}},
	{Model: "galaxy note 20", Terms: []string{"note 20"}, Exclude: []string{"note 20 ultra"}},
	{Model: "galaxy a54", Terms: []string{"a54"}},
	{Model: "galaxy a53", Terms: []string{"a53"}},
	{Model: "galaxy a34", Terms: []string{"a34"}},
	{Model: "galaxy a14", Terms: []string{"a14"}},
	{Model: "galaxy a12", Terms: []string{"a12"}},
}

var xiaomiDevices = []devicePattern{
	{Model: "redmi note 12 pro", Terms: []string{"redmi", "note 12 pro"}},
	{Model: "redmi note 12", Terms: []string{"redmi", "note 12"}, Exclude: []string{"note 12 pro"}},
	{Model: "redmi note 11 pro", Terms: []string{"redmi", "note 11 pro"}},
	{Model: "redmi note 11", Terms: []string{"redmi", "note 11"}, Exclude: []string{"note 11 pro"}},
	{Model: "redmi note 10", Terms: []string{"redmi", "note 10"}},
	{Model: "poco x5 pro", Terms: []string{"poco", "x5 pro"}},
	{Model: "poco x5", Terms: []string{"poco", "x5"}, Exclude: []string{"x5 pro"}},
	{Model: "xiaomi mi 11", Terms: []string{"mi 11"}},
}

var motorolaDevices = []devicePattern{
	{Model: "moto g84", Terms: []string{"moto", "g84"}},
	{Model: "moto g54", Terms: []string{"moto", "g54"}},
	{Model: "moto g32", Terms: []string{"moto", "g32"}},
	{Model: "moto e22", Terms: []string{"moto", "e22"}},
	{Model: "moto edge 40", Terms: []string{"edge 40"}},
}

var huaweiDevices = []devicePattern{
	{Model: "huawei p50 pro", Terms: []string{"p50 pro"}},
	{Model: "huawei p50", Terms: []string{"p50"}, Exclude: []string{"p50 pro"}},
	{Model: "huawei p40 pro", Terms: []string{"p40 pro"}},
	{Model: "huawei p40", Terms: []string{"p40"}, Exclude: []string{"p40 pro"}},
	{Model: "huawei p30 lite", Terms: []string{"p30 lite"}},
	{Model: "huawei p30", Terms: []string{"p30"}, Exclude: []string{"p30 lite", "p30 pro"}},
	{Model: "huawei mate 40 pro", Terms: []string{"mate 40"}},
}

// deviceTables groups the per-brand pattern lists; evaluation order within a
// brand is the correctness-critical part, order across brands is not (brand
// vocabularies are disjoint).
var deviceTables = [][]devicePattern{
	appleDevices,
	samsungDevices,
	xiaomiDevices,
	motorolaDevices,
	huaweiDevices,
}

// serviceTable maps bilingual synonyms to canonical service labels. Groups
// with more specific vocabulary come before "pantalla" so camera glass or
// charge-port lines are not swallowed by the screen group.
var serviceTable = []synonymGroup{
	{Label: "bateria", Keywords: []string{"bateria", "battery", "pila"}},
	{Label: "camara", Keywords: []string{"camara", "camera", "lente"}},
	{Label: "carga", Keywords: []string{"centro de carga", "puerto de carga", "pin de carga", "charging", "conector de carga", "flex de carga"}},
	{Label: "tapa", Keywords: []string{"tapa", "back cover", "trasera"}},
	{Label: "bocina", Keywords: []string{"bocina", "altavoz", "speaker", "auricular", "earpiece"}},
	{Label: "boton", Keywords: []string{"boton", "button", "encendido", "volumen", "power"}},
	{Label: "software", Keywords: []string{"software", "formateo", "sistema", "flasheo"}},
	{Label: "pantalla", Keywords: []string{"pantalla", "screen", "display", "lcd", "oled", "tactil", "touch", "cristal", "vidrio", "glass", "modulo"}},
}

// qualityTable maps part-grade synonyms to canonical quality labels.
var qualityTable = []synonymGroup{
	{Label: "original", Keywords: []string{"original", "oem", "genuina", "genuino", "service pack"}},
	{Label: "incell", Keywords: []string{"incell", "in-cell", "in cell"}},
	{Label: "oled", Keywords: []string{"oled", "amoled"}},
	{Label: "compatible", Keywords: []string{"compatible", "generico", "generica", "generic", "aftermarket", "calidad a"}},
}
