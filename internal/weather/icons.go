package weather

// Icon classes understood by the dashboard stylesheet.
const (
	IconClearDay        = "clear-day"
	IconRain            = "rain"
	IconThunderstorms   = "thunderstorms"
	IconSnow            = "snow"
	IconFog             = "fog"
	IconWindy           = "windy"
	IconCloudy          = "cloudy"
	IconPartlyCloudyDay = "partly-cloudy-day"
)

// Condition codes: https://www.weatherapi.com/docs/weather_conditions.json
// Codes that appear under two icons keep the first one (1087, 1207 and 1276 are rain).
var iconClasses = map[int]string{
	1000: IconClearDay,

	1243: IconRain, // torrential rain shower
	1195: IconRain, // heavy rain
	1276: IconRain, // thundery rain
	1246: IconRain,
	1192: IconRain,
	1087: IconRain, // thundery outbreaks
	1171: IconRain,
	1189: IconRain,
	1186: IconRain,
	1201: IconRain,
	1207: IconRain,
	1240: IconRain,
	1063: IconRain,
	1072: IconRain,
	1150: IconRain,
	1153: IconRain,
	1168: IconRain,
	1180: IconRain,
	1183: IconRain,
	1198: IconRain,

	1273: IconThunderstorms,

	1282: IconSnow,
	1279: IconSnow,
	1261: IconSnow,
	1258: IconSnow,
	1255: IconSnow,
	1252: IconSnow,
	1249: IconSnow,
	1225: IconSnow,
	1237: IconSnow,
	1222: IconSnow,
	1219: IconSnow,
	1216: IconSnow,
	1213: IconSnow,
	1210: IconSnow,
	1204: IconSnow,
	1114: IconSnow,
	1066: IconSnow,
	1117: IconSnow,
	1069: IconSnow,

	1135: IconFog,
	1147: IconFog,
	1030: IconFog,

	24: IconWindy,
	23: IconWindy,

	1003: IconCloudy,
	1006: IconCloudy,
	1009: IconCloudy,

	29: IconPartlyCloudyDay,
	30: IconPartlyCloudyDay,
	44: IconPartlyCloudyDay,
}

// IconClass maps a provider condition code to an icon class.
func IconClass(code int) (string, bool) {
	c, ok := iconClasses[code]
	return c, ok
}
