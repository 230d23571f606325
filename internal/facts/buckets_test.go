package facts

import (
	"fmt"
	"testing"

	"pricebook/internal/inventory"
)

func mvRecord(band string, elev int, level string, crypt int, status string) Record {
	return Record{
		Location:  "Harpeth Hills",
		Section:   "Mountain View",
		Status:    status,
		Space:     fmt.Sprintf("Mountain View Mausoleum Crypts %s Elevation %d Level %s Crypt %d", band, elev, level, crypt),
		SalesItem: "Crypt Interment Right",
	}
}

func TestMountainViewBuckets(t *testing.T) {
	records := []Record{
		mvRecord("Upper Level", 3, "D", 1, "Available"),
		mvRecord("Upper Level", 3, "D", 2, "Available"),
		mvRecord("Upper Level", 3, "D", 3, "Sold"),
		mvRecord("Upper Level", 3, "D", 4, "Sold"),
		// Different elevation lands in a different bucket.
		mvRecord("Upper Level", 2, "D", 1, "Available"),
		// Unparseable space is excluded from every bucket.
		{Location: "Harpeth Hills", Section: "Mountain View", Status: "Available", Space: "garbage"},
		// Other sections are untouched.
		{Location: "Harpeth Hills", Section: "Bell Tower Mausoleum", Status: "Available", Space: "Bell Tower Mausoleum Crypt/Level 1A"},
	}

	buckets := MountainViewBuckets(records)

	single := buckets[MVKey{"Upper Level", 3, "D – Touch", inventory.OptionSingle}]
	if single.Total != 4 || single.Available != 2 {
		t.Fatalf("single bucket = %+v, want Total=4 Available=2", single)
	}
	f, ok := single.SoldFraction()
	if !ok || f != 0.5 {
		t.Fatalf("single sold fraction = %v/%v, want 0.5", f, ok)
	}

	companion := buckets[MVKey{"Upper Level", 3, "D – Touch", inventory.OptionCompanion}]
	// Crypts 1-4 give two adjacent pairs in total, one pair still available.
	if companion.Total != 2 || companion.Available != 1 {
		t.Fatalf("companion bucket = %+v, want Total=2 Available=1", companion)
	}

	other := buckets[MVKey{"Upper Level", 2, "D – Touch", inventory.OptionSingle}]
	if other.Total != 1 || other.Available != 1 {
		t.Fatalf("elevation 2 bucket = %+v", other)
	}
}

func TestMountainViewBucketsDropTandem(t *testing.T) {
	rec := mvRecord("Lower Level", 1, "A", 7, "Available")
	rec.SalesItem = "Tandem Crypt Interment Right"
	buckets := MountainViewBuckets([]Record{rec})
	if len(buckets) != 0 {
		t.Fatalf("tandem sales items must not enter Mountain View buckets, got %v", buckets)
	}
}

func TestBuildingBuckets(t *testing.T) {
	records := []Record{
		{Section: "Last Supper Maus Bldg 7", Status: "Available", Space: "Last Supper Maus Bldg 7 Crypt/Level 1A", SalesItem: "Crypt"},
		{Section: "Last Supper Maus Bldg 7", Status: "Sold", Space: "Last Supper Maus Bldg 7 Crypt/Level 2A", SalesItem: "Crypt"},
		{Section: "Last Supper Maus Bldg 7", Status: "Available", Space: "Last Supper Maus Bldg 7 Crypt/Level 3E", SalesItem: "Crypt"},
		// Tandem dropped when includeTandem is false.
		{Section: "Last Supper Maus Bldg 7", Status: "Available", Space: "Last Supper Maus Bldg 7 Crypt/Level 4A", SalesItem: "Tandem Crypt"},
		// Wrong section ignored.
		{Section: "Last Supper Maus Bldg 8", Status: "Available", Space: "Last Supper Maus Bldg 8 Crypt/Level 1A", SalesItem: "Crypt"},
	}

	buckets := BuildingBuckets(records, SectionBuilding7, false)

	a := buckets[ThemeKey{Theme: "A (Prayer)", Option: inventory.OptionSingle}]
	if a.Total != 2 || a.Available != 1 {
		t.Fatalf("A bucket = %+v, want Total=2 Available=1", a)
	}
	e := buckets[ThemeKey{Theme: "E – Heavenly", Option: inventory.OptionSingle}]
	if e.Total != 1 || e.Available != 1 {
		t.Fatalf("E bucket = %+v", e)
	}
	if _, ok := buckets[ThemeKey{Theme: "A (Prayer)", Option: inventory.OptionTandem}]; ok {
		t.Fatal("tandem bucket present despite includeTandem=false")
	}
}

func TestBuildingBucketsBellTowerTandem(t *testing.T) {
	records := []Record{
		{Section: "Bell Tower Mausoleum", Status: "Available", Space: "Bell Tower Mausoleum Crypt/Level 14E-2", SalesItem: "Tandem Crypt"},
		{Section: "Bell Tower Mausoleum", Status: "Sold", Space: "Bell Tower Mausoleum Crypt/Level 14E-3", SalesItem: "Tandem Crypt"},
	}
	buckets := BuildingBuckets(records, SectionBellTower, true)

	tandem := buckets[ThemeKey{Theme: "E – Heavenly", Option: inventory.OptionTandem}]
	if tandem.Total != 2 || tandem.Available != 1 {
		t.Fatalf("tandem bucket = %+v, want Total=2 Available=1", tandem)
	}
}
