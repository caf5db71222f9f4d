package adminapi

// Init registers every admin API route on the web server.
func Init() {
	registerLegoSetRoutes()
	registerStatusRoutes()
}
