package commodities

// CommodityGroup is one entry of the procurement commodity catalog.
type CommodityGroup struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Group    string `json:"group"`
}

// Label renders the group the way it is presented to the classifier.
func (g CommodityGroup) Label() string {
	return g.Category + " - " + g.Group
}

const (
	categoryGeneralServices    = "General Services"
	categoryFacilityManagement = "Facility Management"
	categoryPublishing         = "Publishing Production"
	categoryIT                 = "Information Technology"
	categoryLogistics          = "Logistics"
	categoryMarketing          = "Marketing & Advertising"
	categoryProduction         = "Production"
)

var catalog = []CommodityGroup{
	{ID: "001", Category: categoryGeneralServices, Group: "Accommodation Rentals"},
	{ID: "002", Category: categoryGeneralServices, Group: "Membership Fees"},
	{ID: "003", Category: categoryGeneralServices, Group: "Workplace Safety"},
	{ID: "004", Category: categoryGeneralServices, Group: "Consulting"},
	{ID: "005", Category: categoryGeneralServices, Group: "Financial Services"},
	{ID: "006", Category: categoryGeneralServices, Group: "Fleet Management"},
	{ID: "007", Category: categoryGeneralServices, Group: "Recruitment Services"},
	{ID: "008", Category: categoryGeneralServices, Group: "Professional Development"},
	{ID: "009", Category: categoryGeneralServices, Group: "Miscellaneous Services"},
	{ID: "010", Category: categoryGeneralServices, Group: "Insurance"},
	{ID: "011", Category: categoryFacilityManagement, Group: "Electrical Engineering"},
	{ID: "012", Category: categoryFacilityManagement, Group: "Facility Management Services"},
	{ID: "013", Category: categoryFacilityManagement, Group: "Security"},
	{ID: "014", Category: categoryFacilityManagement, Group: "Renovations"},
	{ID: "015", Category: categoryFacilityManagement, Group: "Office Equipment"},
	{ID: "016", Category: categoryFacilityManagement, Group: "Energy Management"},
	{ID: "017", Category: categoryFacilityManagement, Group: "Maintenance"},
	{ID: "018", Category: categoryFacilityManagement, Group: "Cafeteria and Kitchenettes"},
	{ID: "019", Category: categoryFacilityManagement, Group: "Cleaning"},
	{ID: "020", Category: categoryPublishing, Group: "Audio and Visual Production"},
	{ID: "021", Category: categoryPublishing, Group: "Books/Videos/CDs"},
	{ID: "022", Category: categoryPublishing, Group: "Printing Costs"},
	{ID: "023", Category: categoryPublishing, Group: "Software Development for Publishing"},
	{ID: "024", Category: categoryPublishing, Group: "Material Costs"},
	{ID: "025", Category: categoryPublishing, Group: "Shipping for Production"},
	{ID: "026", Category: categoryPublishing, Group: "Digital Product Development"},
	{ID: "027", Category: categoryPublishing, Group: "Pre-production"},
	{ID: "028", Category: categoryPublishing, Group: "Post-production Costs"},
	{ID: "029", Category: categoryIT, Group: "Hardware"},
	{ID: "030", Category: categoryIT, Group: "IT Services"},
	{ID: "031", Category: categoryIT, Group: "Software"},
	{ID: "032", Category: categoryLogistics, Group: "Courier, Express, and Postal Services"},
	{ID: "033", Category: categoryLogistics, Group: "Warehousing and Material Handling"},
	{ID: "034", Category: categoryLogistics, Group: "Transportation Logistics"},
	{ID: "035", Category: categoryLogistics, Group: "Delivery Services"},
	{ID: "036", Category: categoryMarketing, Group: "Advertising"},
	{ID: "037", Category: categoryMarketing, Group: "Outdoor Advertising"},
	{ID: "038", Category: categoryMarketing, Group: "Marketing Agencies"},
	{ID: "039", Category: categoryMarketing, Group: "Direct Mail"},
	{ID: "040", Category: categoryMarketing, Group: "Customer Communication"},
	{ID: "041", Category: categoryMarketing, Group: "Online Marketing"},
	{ID: "042", Category: categoryMarketing, Group: "Events"},
	{ID: "043", Category: categoryMarketing, Group: "Promotional Materials"},
	{ID: "044", Category: categoryProduction, Group: "Warehouse and Operational Equipment"},
	{ID: "045", Category: categoryProduction, Group: "Production Machinery"},
	{ID: "046", Category: categoryProduction, Group: "Spare Parts"},
	{ID: "047", Category: categoryProduction, Group: "Internal Transportation"},
	{ID: "048", Category: categoryProduction, Group: "Production Materials"},
	{ID: "049", Category: categoryProduction, Group: "Consumables"},
	{ID: "050", Category: categoryProduction, Group: "Maintenance and Repairs"},
}

var byID = func() map[string]CommodityGroup {
	out := make(map[string]CommodityGroup, len(catalog))
	for _, g := range catalog {
		out[g.ID] = g
	}
	return out
}()

// List returns the catalog in definition order. Callers get their own copy.
func List() []CommodityGroup {
	out := make([]CommodityGroup, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a group by its identifier.
func Lookup(id string) (CommodityGroup, bool) {
	g, ok := byID[id]
	return g, ok
}
