package synth

// German locale pools. gofakeit ships English data only, so names, streets
// and cities are drawn from these lists through the seeded faker.

var maleFirstNames = []string{
	"Alexander", "Andreas", "Benjamin", "Christian", "Daniel", "David", "Dennis",
	"Dieter", "Felix", "Florian", "Frank", "Hans", "Jan", "Jens", "Jonas",
	"Jörg", "Jürgen", "Kai", "Klaus", "Lukas", "Markus", "Martin", "Matthias",
	"Michael", "Niklas", "Oliver", "Patrick", "Peter", "Ralf", "Sebastian",
	"Stefan", "Thomas", "Tim", "Tobias", "Uwe", "Wolfgang",
}

var femaleFirstNames = []string{
	"Andrea", "Anja", "Anna", "Birgit", "Claudia", "Elke", "Emma", "Franziska",
	"Gabriele", "Hannah", "Heike", "Jana", "Jessica", "Julia", "Katharina",
	"Kerstin", "Laura", "Lena", "Lisa", "Maria", "Marie", "Monika", "Nadine",
	"Nicole", "Petra", "Sabine", "Sandra", "Sarah", "Silke", "Sophie",
	"Stefanie", "Susanne", "Tanja", "Ursula", "Yvonne",
}

var lastNames = []string{
	"Bauer", "Becker", "Braun", "Fischer", "Frank", "Friedrich", "Fuchs",
	"Günther", "Hahn", "Hartmann", "Hoffmann", "Hofmann", "Huber", "Jung",
	"Kaiser", "Keller", "Klein", "Koch", "König", "Krause", "Krüger", "Lang",
	"Lange", "Lehmann", "Ludwig", "Maier", "Meyer", "Möller", "Müller",
	"Neumann", "Richter", "Roth", "Schäfer", "Scholz", "Schmid", "Schmidt",
	"Schmitz", "Schneider", "Schröder", "Schulz", "Schwarz", "Vogel", "Wagner",
	"Walter", "Weber", "Werner", "Wolf", "Zimmermann", "Özdemir",
}

var streetNames = []string{
	"Ahornweg", "Am Markt", "Bahnhofstraße", "Birkenweg", "Dorfstraße",
	"Friedrichstraße", "Gartenstraße", "Goethestraße", "Hauptstraße",
	"Industriestraße", "Kirchplatz", "Lindenallee", "Mühlenweg", "Parkstraße",
	"Ringstraße", "Rosenweg", "Schillerstraße", "Schulstraße", "Talstraße",
	"Waldstraße", "Wiesenweg",
}

type city struct {
	name     string
	postcode string
}

// Postcode prefixes are the first two digits of the delivery region; the
// remaining three digits are generated.
var cities = []city{
	{"Berlin", "10"}, {"Hamburg", "20"}, {"München", "80"}, {"Köln", "50"},
	{"Frankfurt am Main", "60"}, {"Stuttgart", "70"}, {"Düsseldorf", "40"},
	{"Leipzig", "04"}, {"Dortmund", "44"}, {"Essen", "45"}, {"Bremen", "28"},
	{"Dresden", "01"}, {"Hannover", "30"}, {"Nürnberg", "90"},
	{"Duisburg", "47"}, {"Bochum", "44"}, {"Wuppertal", "42"},
	{"Bielefeld", "33"}, {"Bonn", "53"}, {"Münster", "48"}, {"Göttingen", "37"},
	{"Würzburg", "97"}, {"Lübeck", "23"}, {"Osnabrück", "49"},
}

var companySuffixes = []string{
	"GmbH", "AG", "GmbH & Co. KG", "KG", "OHG", "GbR", "e.G.", "KGaA",
}

var healthInsurers = []string{"Techniker KK", "AOK", "Barmer", "DAK", "IKK"}
