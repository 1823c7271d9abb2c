package pgen

func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
