package mysql

const listAmenitiesSQL = `SELECT id, name FROM amenities ORDER BY id`

const listServicesSQL = `SELECT id, name FROM services ORDER BY id`

// 21 params per row; list columns hold JSON arrays.
const insertPropertiesPrefix = `
INSERT INTO properties
  (property_name, description, rate, category, per_person_price, total_capacity,
   amenity_ids, service_ids, images, videos,
   city, state, address, flat_no, latitude, longitude,
   bed, bathroom, area, furnishing_type, availability)
VALUES `

const propertyColumns = `
  id, property_name, description, rate, category, per_person_price, total_capacity,
  amenity_ids, service_ids, images, videos,
  city, state, address, flat_no, latitude, longitude,
  bed, bathroom, area, furnishing_type, availability
`

const getPropertySQL = `SELECT` + propertyColumns + `FROM properties WHERE id = ?`

const listPropertiesSQL = `SELECT` + propertyColumns + `FROM properties ORDER BY id DESC LIMIT ?`

const listPropertiesByCategorySQL = `SELECT` + propertyColumns + `FROM properties WHERE category = ? ORDER BY id DESC LIMIT ?`
