// Package relay turns Firestore collection growth into cart open/close writes.
//
// Each watched collection gets its own Watcher and Comparator. A growth
// trigger opens the cart and schedules a close after the watch's delay;
// a later trigger on the same watch replaces the pending close.
package relay
